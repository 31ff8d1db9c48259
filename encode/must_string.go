package encode

import (
	"bytes"
	"strings"

	"github.com/yamldoc/go-yamldoc/tree"
)

func MustString(t *tree.Tree, id tree.ID, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(t, id, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
