package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yamldoc/go-yamldoc/encode"
	"github.com/yamldoc/go-yamldoc/parse"
	"github.com/yamldoc/go-yamldoc/tree"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch document argument", cli.ErrUsage)
	}
	p, err := loadPatch(cfg, args[0])
	if err != nil {
		return err
	}
	files := argsOrStdin(args[1:])
	for i, arg := range files {
		if err := patchArg(cfg, cc.Out, arg, p); err != nil {
			return fmt.Errorf("error patching %s: %w", arg, err)
		}
		if i < len(files)-1 {
			if err := writeSep(cc.Out); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadPatch reads an RFC 6902 patch document. The patch may be written in
// yaml; it is parsed and re-encoded as json before decoding.
func loadPatch(cfg *PatchConfig, arg string) (jsonpatch.Patch, error) {
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
		return nil, err
	}
	t, err := parse.Parse(d, parse.WithName(arg))
	if err != nil {
		return nil, fmt.Errorf("error decoding patch %s: %w", arg, err)
	}
	jd, err := emitJSON(t, t.Root())
	if err != nil {
		return nil, fmt.Errorf("patch %s has no json form: %w", arg, err)
	}
	p, err := jsonpatch.DecodePatch(jd)
	if err != nil {
		return nil, fmt.Errorf("invalid patch %s: %w", arg, err)
	}
	return p, nil
}

func patchArg(cfg *PatchConfig, w io.Writer, arg string, p jsonpatch.Patch) error {
	t, err := cfg.loadDoc(arg)
	if err != nil {
		return err
	}
	jd, err := emitJSON(t, t.Root())
	if err != nil {
		return fmt.Errorf("document has no json form: %w", err)
	}
	out, err := p.Apply(jd)
	if err != nil {
		return err
	}
	res, err := parse.Parse(out, parse.WithName(arg))
	if err != nil {
		return fmt.Errorf("error re-reading patched document: %w", err)
	}
	return encode.Encode(res, res.Root(), w, cfg.encOpts(w)...)
}

func emitJSON(t *tree.Tree, id tree.ID) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode.Encode(t, id, &buf, encode.EncodeJSON()); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(buf.String(), "\n")), nil
}
