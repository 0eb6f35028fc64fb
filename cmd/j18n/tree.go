package main

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/j18n/j18n"
	"github.com/scott-cotton/cli"
)

// JointEnv is what a -where expression sees of a joint.
type JointEnv struct {
	Key         string
	Path        string
	Type        string
	Raw         string
	Comment     string
	Description string
	Index       int
	Depth       int
	Len         int
	Leaf        bool
}

func jointEnv(j *j18n.Joint) JointEnv {
	return JointEnv{
		Key:         j.Key(),
		Path:        j.Path(),
		Type:        j.Type().String(),
		Raw:         j.RawText(),
		Comment:     j.Comment(),
		Description: j.Description(),
		Index:       j.Index(),
		Depth:       j.Depth(),
		Len:         j.Len(),
		Leaf:        j.IsLeaf(),
	}
}

func tree(cfg *TreeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tree.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: tree requires 1 argument, got %d", cli.ErrUsage, len(args))
	}
	var prg *vm.Program
	if cfg.Where != "" {
		prg, err = expr.Compile(cfg.Where, expr.Env(JointEnv{}), expr.AsBool())
		if err != nil {
			return fmt.Errorf("%w: -where: %w", cli.ErrUsage, err)
		}
	}
	doc, err := readDoc(args[0])
	if err != nil {
		return err
	}
	root, err := j18n.ParseDocument(doc, !cfg.Lazy)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	pal := cfg.colors(cc.Out)
	var walkErr error
	root.Walk(func(j *j18n.Joint) bool {
		if walkErr != nil {
			return false
		}
		if j == root {
			return true
		}
		if prg != nil {
			ok, err := expr.Run(prg, jointEnv(j))
			if err != nil {
				walkErr = fmt.Errorf("error evaluating -where at %s: %w", j.Path(), err)
				return false
			}
			if !ok.(bool) {
				return true
			}
		}
		line := fmt.Sprintf("%s%s [%d] %s", strings.Repeat("  ", j.Depth()-1), pal.path("%s", j.Path()), j.Index(), j.Type())
		if j.IsLeaf() {
			line += " " + pal.added("%q", j.RawText())
		}
		_, walkErr = fmt.Fprintln(cc.Out, line)
		return true
	})
	return walkErr
}
