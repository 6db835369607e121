package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/variance/internal/hacktype"
	"github.com/sunholo/variance/internal/polarity"
)

func writeTempProgram(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "program.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadProgramClassAndTypedef(t *testing.T) {
	path := writeTempProgram(t, `
classes:
  - name: Box
    tparams:
      - {name: T, variance: "+"}
    properties:
      - {name: x, type: "T", visibility: private}
    methods:
      - {name: get, type: "function(): T"}
typedefs:
  - name: Pair
    tparams:
      - {name: T, variance: "+"}
    body: "(T, T)"
`)

	env, classes, typedefs, err := loadProgram(path)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	require.Len(t, typedefs, 1)

	assert.Equal(t, "Box", classes[0].info.Name())
	require.Len(t, classes[0].info.TParams, 1)
	assert.Equal(t, polarity.AnnotationCovariant, classes[0].info.TParams[0].Variance)

	c, _, ok := env.LookupClassOrTypedef("Box")
	require.True(t, ok)
	assert.Same(t, classes[0].info, c)

	assert.Equal(t, "Pair", typedefs[0].Name())
	assert.Equal(t, "(T, T)", typedefs[0].Body.String())
}

func TestLoadProgramRejectsBadType(t *testing.T) {
	path := writeTempProgram(t, `
classes:
  - name: Box
    properties:
      - {name: x, type: "T T"}
`)
	_, _, _, err := loadProgram(path)
	assert.Error(t, err)
}

func TestLoadProgramParents(t *testing.T) {
	path := writeTempProgram(t, `
classes:
  - name: Container
    tparams:
      - {name: T, variance: "+"}
  - name: Box
    tparams:
      - {name: T, variance: "+"}
    parents:
      - "Container<T>"
`)
	_, classes, _, err := loadProgram(path)
	require.NoError(t, err)
	require.Len(t, classes, 2)

	box := classes[1]
	require.Len(t, box.parents, 1)
	app, ok := box.parents[0].(hacktype.TApply)
	require.True(t, ok)
	assert.Equal(t, "Container", app.Name)
}

func TestNormalizeIdentifier(t *testing.T) {
	// "e" followed by a combining acute accent (NFD, two runes) normalizes
	// to the single precomposed code point (NFC, one rune).
	nfd := "e\u0301"
	nfc := "\u00e9"
	assert.Equal(t, nfc, normalize(nfd))
	assert.NotEqual(t, nfd, nfc)
}
