package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Verbose bool `cli:"name=v aliases=verbose desc='log debug output to stderr'"`
	Color   bool `cli:"name=color desc='output with color'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

// useColor reports whether output to w should be colorized: -color forces
// it, otherwise only terminals get color.
func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name == "color" && opt.Value != nil {
			return false
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// palette holds the printers for diff output.
type palette struct {
	added, removed, changed, path func(format string, a ...interface{}) string
}

func (cfg *MainConfig) colors(w io.Writer) *palette {
	if !cfg.useColor(w) {
		plain := fmt.Sprintf
		return &palette{added: plain, removed: plain, changed: plain, path: plain}
	}
	mk := func(attrs ...color.Attribute) func(string, ...interface{}) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintfFunc()
	}
	return &palette{
		added:   mk(color.FgGreen),
		removed: mk(color.FgRed),
		changed: mk(color.FgYellow),
		path:    mk(color.FgCyan),
	}
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Records bool `cli:"name=records desc='print the raw diff records before the results'"`
	Patch   bool `cli:"name=patch desc='print the results as an RFC 6902 JSON patch'"`

	Diff *cli.Command
}

type ApplyConfig struct {
	*MainConfig
	YAML   bool `cli:"name=y aliases=yaml desc='output YAML'"`
	Diff   bool `cli:"name=diff desc='print a unified diff of the document before and after'"`
	Insert bool `cli:"name=insert desc='create joints for added properties'"`

	Apply *cli.Command
}

type PatchConfig struct {
	*MainConfig
	YAML bool `cli:"name=y aliases=yaml desc='output YAML'"`

	Patch *cli.Command
}

type TreeConfig struct {
	*MainConfig
	Where string `cli:"name=where desc='only list joints for which the expression holds'"`
	Lazy  bool   `cli:"name=lazy desc='materialize only the top level'"`

	Tree *cli.Command
}
