package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/j18n/j18n"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/scott-cotton/cli"
)

func apply(cfg *ApplyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: apply requires 2 arguments, got %d", cli.ErrUsage, len(args))
	}
	from, err := readDoc(args[0])
	if err != nil {
		return err
	}
	to, err := readDoc(args[1])
	if err != nil {
		return err
	}
	root, err := j18n.ParseDocument(from, true)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	before, err := root.JSON()
	if err != nil {
		return err
	}
	log := cfg.logger()
	ctx := context.Background()
	results, err := j18n.Diff(ctx, from, to, j18n.WithLogger(log))
	if err != nil {
		return err
	}
	var opts []j18n.ApplyOption
	if cfg.Insert {
		opts = append(opts, j18n.InsertMissing())
	}
	rep, err := j18n.ApplyResults(ctx, root, results, opts...)
	if err != nil {
		return err
	}
	log.Debug("applied results",
		"removed", len(rep.Removed),
		"updated", len(rep.Updated),
		"inserted", len(rep.Inserted),
		"skipped", len(rep.Skipped))
	for _, p := range rep.Skipped {
		log.Info("skipped path", "path", p)
	}
	if !cfg.Diff {
		return writeTree(cc.Out, root, cfg.YAML)
	}
	after, err := root.JSON()
	if err != nil {
		return err
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before + "\n"),
		B:        difflib.SplitLines(after + "\n"),
		FromFile: args[0],
		ToFile:   args[0] + " (applied)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return err
	}
	pal := cfg.colors(cc.Out)
	for _, ln := range difflib.SplitLines(text) {
		ln = strings.TrimSuffix(ln, "\n")
		switch {
		case strings.HasPrefix(ln, "+++"), strings.HasPrefix(ln, "---"):
			ln = pal.path("%s", ln)
		case strings.HasPrefix(ln, "+"):
			ln = pal.added("%s", ln)
		case strings.HasPrefix(ln, "-"):
			ln = pal.removed("%s", ln)
		case strings.HasPrefix(ln, "@@"):
			ln = pal.changed("%s", ln)
		}
		if ln == "" {
			continue
		}
		fmt.Fprintln(cc.Out, ln)
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "no changes")
	}
	return nil
}
