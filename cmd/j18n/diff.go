package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/j18n/j18n"
	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 arguments, got %d", cli.ErrUsage, len(args))
	}
	from, err := readDoc(args[0])
	if err != nil {
		return err
	}
	to, err := readDoc(args[1])
	if err != nil {
		return err
	}
	if cfg.Reverse {
		from, to = to, from
	}
	records, err := j18n.DiffJSON([]byte(from), []byte(to))
	if err != nil {
		return err
	}
	log := cfg.logger()
	log.Debug("diffed documents", "old", args[0], "new", args[1], "records", len(records))

	s, err := j18n.NewSession(to, j18n.WithLogger(log))
	if err != nil {
		return err
	}
	defer s.Close()
	results, err := s.Classify(context.Background(), records)
	if err != nil {
		return err
	}
	if cfg.Patch {
		p, err := j18n.ToPatch(results)
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cc.Out, string(b))
		return err
	}
	pal := cfg.colors(cc.Out)
	if cfg.Records {
		writeRecords(cc.Out, pal, records)
	}
	for _, r := range results {
		writeResult(cc.Out, pal, r)
	}
	return nil
}

func writeRecords(w io.Writer, pal *palette, records []j18n.Record) {
	for _, rec := range records {
		fmt.Fprintf(w, "%s %s\n", rec.Kind(), pal.path("%s", rec.Path()))
		switch r := rec.(type) {
		case *j18n.ObjectRecord:
			for _, m := range r.Mismatches {
				fmt.Fprintf(w, "  %s\n", side(pal, m.Side, "%s: %s", m.Name, m.Value))
			}
		case *j18n.ArrayRecord:
			for _, m := range r.Mismatches {
				fmt.Fprintf(w, "  %s\n", side(pal, m.Side, "[%d]: %s", m.Index, m.Value))
			}
		case *j18n.ValueRecord:
			fmt.Fprintf(w, "  %s\n", pal.changed("%s -> %s", r.Left, r.Right))
		case *j18n.TypeRecord:
			fmt.Fprintf(w, "  %s\n", pal.changed("%s -> %s", r.Left, r.Right))
		}
	}
}

func side(pal *palette, s j18n.Side, format string, a ...interface{}) string {
	if s == j18n.LeftOnly {
		return pal.removed("- "+format, a...)
	}
	return pal.added("+ "+format, a...)
}

func writeResult(w io.Writer, pal *palette, r *j18n.DiffResult) {
	if r == nil {
		return
	}
	for _, p := range r.RemovedProperties {
		fmt.Fprintln(w, pal.removed("- %s", p))
	}
	mark, show := "+ %s: %s", pal.added
	if r.Type == j18n.KindValue || r.Type == j18n.KindType {
		mark, show = "~ %s: %s", pal.changed
	}
	for _, p := range r.UpdatedPaths() {
		fmt.Fprintln(w, show(mark, p, r.UpdatedProperties[p].Compact()))
	}
}
