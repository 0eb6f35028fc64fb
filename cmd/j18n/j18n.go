package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/j18n/j18n"
	"github.com/scott-cotton/cli"
)

func j18nMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) logger() *slog.Logger {
	return newLogger(os.Stderr, cfg.Verbose)
}

// readDoc reads a JSON or YAML document ("-" is stdin) and returns its JSON
// text. Files ending in .yaml or .yml are read as YAML.
func readDoc(arg string) (string, error) {
	var (
		data []byte
		err  error
	)
	if arg == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(arg)
	}
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", arg, err)
	}
	if !isYAML(arg) {
		return string(data), nil
	}
	n, err := j18n.ParseYAML(data)
	if err != nil {
		return "", fmt.Errorf("error decoding %s: %w", arg, err)
	}
	return n.Indent(), nil
}

func isYAML(arg string) bool {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// writeTree writes the tree as indented JSON or as YAML.
func writeTree(w io.Writer, root *j18n.Joint, asYAML bool) error {
	if asYAML {
		b, err := root.YAML()
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	s, err := root.JSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}
