package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})
	return cli.NewCommandAt(&cfg.Main, "j18n").
		WithSynopsis("j18n [opts] command [opts]").
		WithDescription("j18n diffs JSON localization documents and applies the changes to a joint tree.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return j18nMain(cfg, cc, args)
		}).
		WithSubs(
			DiffCommand(cfg),
			ApplyCommand(cfg),
			PatchCommand(cfg),
			TreeCommand(cfg))
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff [opts] old new").
		WithDescription("classify the differences between two documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func ApplyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ApplyConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Apply, "apply").
		WithAliases("a", "ap").
		WithSynopsis("apply [opts] old new").
		WithDescription("apply the differences between old and new to the joint tree of old").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return apply(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p", "pa").
		WithSynopsis("patch [opts] <patchfile> doc").
		WithDescription("apply an RFC 6902 JSON patch to the joint tree of a document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}

func TreeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TreeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Tree, "tree").
		WithAliases("t").
		WithSynopsis("tree [opts] doc").
		WithDescription(treeDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tree(cfg, cc, args)
		})
}

const treeDescription = `tree lists the joints of a document, one per line.

Each line shows the joint path, index and type, and for leaves the raw text.

Selecting joints

-where takes a boolean expression evaluated for every joint, for example

  j18n tree -where 'Leaf && Depth > 1 && Raw contains "TODO"' en_US.json

The expression sees Key, Path, Type, Raw, Comment, Description (strings),
Index, Depth, Len (ints) and Leaf (bool).`
