package main

import (
	"fmt"
	"io"

	"github.com/yamldoc/go-yamldoc/encode"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	args = argsOrStdin(args)
	for i, arg := range args {
		if err := viewArg(cfg, cc.Out, arg); err != nil {
			return err
		}
		if i < len(args)-1 {
			if err := writeSep(cc.Out); err != nil {
				return err
			}
		}
	}
	return nil
}

func viewArg(cfg *ViewConfig, w io.Writer, arg string) error {
	t, err := cfg.loadDoc(arg)
	if err != nil {
		return err
	}
	if err := encode.Encode(t, t.Root(), w, cfg.encOpts(w)...); err != nil {
		return fmt.Errorf("error encoding %s: %w", arg, err)
	}
	return nil
}

func writeSep(w io.Writer) error {
	_, err := w.Write([]byte("---\n"))
	return err
}
