package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/yamldoc/go-yamldoc/encode"
	"github.com/yamldoc/go-yamldoc/tree"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires exactly two arguments", cli.ErrUsage)
	}
	ta, err := cfg.loadDoc(args[0])
	if err != nil {
		return err
	}
	tb, err := cfg.loadDoc(args[1])
	if err != nil {
		return err
	}
	if tree.Equal(ta, tb) {
		return nil
	}
	sa, err := emitPlain(cfg.MainConfig, ta)
	if err != nil {
		return err
	}
	sb, err := emitPlain(cfg.MainConfig, tb)
	if err != nil {
		return err
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(sa, sb, true)
	if useColor(cfg.MainConfig, cc.Out) {
		_, err = io.WriteString(cc.Out, dmp.DiffPrettyText(diffs))
		if err != nil {
			return err
		}
		return cli.ExitCodeErr(1)
	}
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		if err := writePrefixed(cc.Out, prefix, d.Text); err != nil {
			return err
		}
	}
	return cli.ExitCodeErr(1)
}

// emitPlain renders a document in its canonical resolved form, colorless,
// for textual comparison.
func emitPlain(cfg *MainConfig, t *tree.Tree) (string, error) {
	var buf bytes.Buffer
	if err := encode.Encode(t, t.Root(), &buf, encode.EncodeFormat(cfg.outputFormat())); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func useColor(cfg *MainConfig, w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func writePrefixed(w io.Writer, prefix, text string) error {
	lines := bytes.Split([]byte(text), []byte("\n"))
	for i, ln := range lines {
		if i == len(lines)-1 && len(ln) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, ln); err != nil {
			return err
		}
	}
	return nil
}
