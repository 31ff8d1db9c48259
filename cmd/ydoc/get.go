package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yamldoc/go-yamldoc/encode"
	"github.com/yamldoc/go-yamldoc/tree"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires a dotted path argument", cli.ErrUsage)
	}
	path := args[0]
	for _, arg := range argsOrStdin(args[1:]) {
		if err := getArg(cfg, cc.Out, arg, path); err != nil {
			return fmt.Errorf("error querying %s with %s: %w", arg, path, err)
		}
	}
	return nil
}

func getArg(cfg *GetConfig, w io.Writer, arg, path string) error {
	t, err := cfg.loadDoc(arg)
	if err != nil {
		return err
	}
	id, err := walkPath(t, path)
	if err != nil {
		return err
	}
	if id == tree.None {
		// absent paths print nothing, matching absent-key read semantics
		theLog.Debugw("path not found", "arg", arg, "path", path)
		return nil
	}
	return encode.Encode(t, id, w, cfg.encOpts(w)...)
}

// walkPath descends from the root by dotted path segments: map keys by
// name, sequence elements by index.
func walkPath(t *tree.Tree, path string) (tree.ID, error) {
	id := t.Root()
	if path == "" || path == "." {
		return id, nil
	}
	for _, seg := range strings.Split(strings.TrimPrefix(path, "."), ".") {
		if seg == "" {
			return tree.None, fmt.Errorf("%w: empty path segment in %q", cli.ErrUsage, path)
		}
		switch {
		case t.IsMap(id):
			id = t.FindChild(id, seg)
		case t.IsSeq(id):
			i, err := strconv.Atoi(seg)
			if err != nil {
				return tree.None, fmt.Errorf("%w: sequence index %q is not a number", cli.ErrUsage, seg)
			}
			id = t.Child(id, i)
		default:
			return tree.None, nil
		}
		if id == tree.None {
			return tree.None, nil
		}
	}
	return id, nil
}
