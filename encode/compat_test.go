package encode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/yamldoc/go-yamldoc/parse"
	"github.com/yamldoc/go-yamldoc/resolve"
)

// TestEmissionAgainstReference re-emits documents and checks that a
// reference YAML implementation reads the original and the re-emission as
// the same data. This guards both structure and scalar typing: a plain
// "true" must stay a bool, a quoted "true" must stay a string.
func TestEmissionAgainstReference(t *testing.T) {
	docs := []string{
		"name: skyranger\nspeed: 760\ndamaged: false\nfuel: 0.82\n",
		"crew:\n  - name: ana\n    rank: 2\n  - name: boris\n    rank: 0\n",
		"pos: [3, -4]\nstats: {tu: 60, hp: 35}\n",
		"a: \"true\"\nb: true\nc: \"017\"\nd: null\ne: \"\"\n",
		"- 1\n- -2.5\n- plain text\n- \"quoted # text\"\n",
		"deep:\n  - - x\n    - y\n  - z\n",
		"base: &b {v: 1}\ncopy: *b\n",
	}
	for _, d := range docs {
		tr, err := parse.Parse([]byte(d))
		require.NoError(t, err, d)
		require.NoError(t, resolve.Resolve(tr), d)
		var buf bytes.Buffer
		require.NoError(t, Encode(tr, tr.Root(), &buf), d)

		var want, got any
		require.NoError(t, yaml.Unmarshal([]byte(d), &want), d)
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got), d)
		require.Equal(t, want, got, "document %q re-emitted as %q", d, buf.String())
	}
}
