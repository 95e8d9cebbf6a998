package outlinefile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kastheco/hisect/outline"
	"github.com/kastheco/hisect/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneYAML = `name: scene
nodes:
  - name: --- Lights ---
    tag: EditorOnly
  - name: Lamp
    children:
      - name: Bulb
  - name: --- Props ---
`

func TestDecode(t *testing.T) {
	f, err := Decode(strings.NewReader(sceneYAML))
	require.NoError(t, err)

	assert.Equal(t, "scene", f.Name)
	require.Len(t, f.Nodes, 3)
	assert.Equal(t, "EditorOnly", f.Nodes[0].Tag)
	require.Len(t, f.Nodes[1].Children, 1)
	assert.Equal(t, "Bulb", f.Nodes[1].Children[0].Name)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "unknown field", input: "name: x\nnodes: []\ncolour: red\n"},
		{name: "malformed", input: "nodes: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestTree(t *testing.T) {
	f, err := Decode(strings.NewReader(sceneYAML))
	require.NoError(t, err)

	tree := f.Tree()

	assert.False(t, tree.Pending())
	assert.Equal(t, 3, tree.RootCount())
	assert.Equal(t, 4, tree.Len())
	roots := tree.RootItems()
	assert.Equal(t, section.EditorOnlyTag, tree.Tag(roots[0]))
	kids := tree.Children(roots[1])
	require.Len(t, kids, 1)
	assert.Equal(t, "Bulb", tree.DisplayName(kids[0]))
}

func TestEncodeKeepsStructure(t *testing.T) {
	f, err := Decode(strings.NewReader(sceneYAML))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromTree(f.Name, f.Tree())))
	assert.Contains(t, buf.String(), "tag: EditorOnly")

	again, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestWriteAndReadFile(t *testing.T) {
	tree := outline.New()
	tree.CreateNode("--- Section ---")
	tree.Flush()

	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, WriteFile(path, FromTree("doc", tree)))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, File{Name: "doc", Nodes: []Node{{Name: "--- Section ---"}}}, f)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
