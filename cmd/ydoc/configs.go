package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/yamldoc/go-yamldoc/encode"
	"github.com/yamldoc/go-yamldoc/format"
	"github.com/yamldoc/go-yamldoc/parse"
	"github.com/yamldoc/go-yamldoc/resolve"
	"github.com/yamldoc/go-yamldoc/tree"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`
	J     bool `cli:"name=j aliases=json desc='output in json'"`
	Y     bool `cli:"name=y aliases=yaml desc='output in yaml'"`
	Raw   bool `cli:"name=raw desc='keep anchors and aliases unresolved'"`
	V     bool `cli:"name=v aliases=verbose desc='verbose logging'"`

	OutFormat *format.Format
	MaxExpand int

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fp **format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = &f
		return f, nil
	})
}

func (cfg *MainConfig) maxExpandOpt(_ *cli.Context, a string) (any, error) {
	n, err := strconv.Atoi(a)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%w: maxExpand wants a positive integer, got %q", cli.ErrUsage, a)
	}
	cfg.MaxExpand = n
	return n, nil
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

func (cfg *MainConfig) outputFormat() format.Format {
	switch {
	case cfg.J:
		return format.JSONFormat
	case cfg.Y:
		return format.YAMLFormat
	}
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return format.YAMLFormat
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.outputFormat()),
	}
	if cfg.outputFormat().IsJSON() {
		return res
	}
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	f, ok := w.(*os.File)
	if ok && isatty.IsTerminal(f.Fd()) {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func (cfg *MainConfig) resolveOpts() []resolve.Option {
	if cfg.MaxExpand > 0 {
		return []resolve.Option{resolve.WithMaxExpansion(cfg.MaxExpand)}
	}
	return nil
}

// loadDoc reads and parses one document argument, "-" meaning stdin, and
// resolves its references unless -raw is set.
func (cfg *MainConfig) loadDoc(arg string) (*tree.Tree, error) {
	var r io.Reader
	if arg == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(arg)
		if err != nil {
			return nil, fmt.Errorf("could not open %q: %w", arg, err)
		}
		defer f.Close()
		r = f
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", arg, err)
	}
	t, err := parse.Parse(d, parse.WithName(arg))
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", arg, err)
	}
	theLog.Debugw("parsed", "arg", arg, "nodes", t.Size())
	if cfg.Raw {
		return t, nil
	}
	if err := resolve.Resolve(t, cfg.resolveOpts()...); err != nil {
		return nil, fmt.Errorf("error resolving %s: %w", arg, err)
	}
	return t, nil
}

// argsOrStdin defaults an empty argument list to stdin.
func argsOrStdin(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig

	Patch *cli.Command
}
