// Package yamldoc is the high-level entry point: parse a document, resolve
// its anchors and aliases, and read or build it through typed cursors.
//
// The subpackages expose each stage separately (parse, resolve, tree, bind,
// encode); this package bundles the common paths.
package yamldoc

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yamldoc/go-yamldoc/bind"
	"github.com/yamldoc/go-yamldoc/encode"
	"github.com/yamldoc/go-yamldoc/format"
	"github.com/yamldoc/go-yamldoc/tree"
)

// Read parses d, resolves references, and returns the root reader.
func Read(d []byte, opts ...bind.ReaderOption) (*bind.RootReader, error) {
	return bind.NewRootReader(d, opts...)
}

// ReadFile is Read over a file's contents, with the file name wired into
// locations and diagnostics.
func ReadFile(path string, opts ...bind.ReaderOption) (*bind.RootReader, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}
	return bind.NewRootReader(d, append([]bind.ReaderOption{bind.WithName(path)}, opts...)...)
}

// Write returns a writer over a fresh empty document.
func Write(opts ...bind.WriterOption) *bind.RootWriter {
	return bind.NewRootWriter(opts...)
}

// Emit serializes a whole tree in the given format.
func Emit(t *tree.Tree, f format.Format, opts ...encode.EncodeOption) (string, error) {
	var buf bytes.Buffer
	opts = append(opts, encode.EncodeFormat(f))
	if err := encode.Encode(t, t.Root(), &buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}
