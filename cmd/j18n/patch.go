package main

import (
	"context"
	"fmt"
	"os"

	"github.com/j18n/j18n"
	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires 2 arguments, got %d", cli.ErrUsage, len(args))
	}
	p, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading %s: %w", args[0], err)
	}
	doc, err := readDoc(args[1])
	if err != nil {
		return err
	}
	root, err := j18n.ParseDocument(doc, false)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	if err := j18n.ApplyPatchBytes(context.Background(), root, p); err != nil {
		return fmt.Errorf("error patching %s: %w", args[1], err)
	}
	cfg.logger().Debug("patched document", "patch", args[0], "doc", args[1])
	return writeTree(cc.Out, root, cfg.YAML)
}
