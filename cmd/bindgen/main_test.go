package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bindgen "github.com/wippyai/ffi-bindgen"
	"github.com/wippyai/ffi-bindgen/component"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	require.NoError(t, filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(dir, p)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	}))
	return files
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "generate", "-l", "kotlin", "-l", "go", "-o", dir,
		"--config", "testdata/bindgen.yaml", "testdata/math.yaml")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"com/example/math/math.kt",
		"example.com/mathbind/math.go",
	}, listFiles(t, dir))
	assert.Contains(t, out, "wrote")
	assert.Contains(t, out, "1 model(s), 2 file(s)")

	kt, err := os.ReadFile(filepath.Join(dir, "com", "example", "math", "math.kt"))
	require.NoError(t, err)
	assert.Contains(t, string(kt), "package com.example.math")

	goSrc, err := os.ReadFile(filepath.Join(dir, "example.com", "mathbind", "math.go"))
	require.NoError(t, err)
	assert.Contains(t, string(goSrc), "package mathbind")
	assert.Contains(t, string(goSrc), `"mathlib"`)
}

func TestGenerateFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "generate", "-l", "kotlin", "-o", dir,
		"--config", "testdata/bindgen.yaml", "--package", "com.acme", "testdata/math.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"com/acme/math.kt"}, listFiles(t, dir))
}

func TestGenerateGlob(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "generate", "-l", "kotlin", "-o", dir, "testdata/**/math.y*ml")
	require.NoError(t, err)
	assert.Equal(t, []string{"uniffi/math/math.kt"}, listFiles(t, dir))
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"broken model", []string{"-l", "kotlin", "testdata/math.yaml", "testdata/broken.yaml"}},
		{"unknown language", []string{"-l", "kotlin", "-l", "cobol", "testdata/math.yaml"}},
		{"no language", []string{"testdata/math.yaml"}},
		{"missing model", []string{"-l", "go", "testdata/math.yaml", "testdata/absent.yaml"}},
		{"empty glob", []string{"-l", "go", "testdata/**/*.json"}},
		{"missing config", []string{"-l", "go", "--config", "testdata/absent.yaml", "testdata/math.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"generate", "-o", dir}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Empty(t, listFiles(t, dir))
		})
	}
}

func TestInspectPlain(t *testing.T) {
	out, err := execute(t, "inspect", "--plain", "-l", "go", "testdata/math.yaml")
	require.NoError(t, err)

	for _, want := range []string{
		"enum Rounding (2 variants)",
		"record Settings (2 fields)",
		"error MathError (2 variants)",
		"func Divide (math_divide)",
		"object Accumulator (1 constructor, 2 methods)",
		"callback Progress (1 method)",
		"symbol   ffi_math_Accumulator_object_free(ptr: ",
		"symbol   ffi_math_Progress_init_callback(",
		"index types",
		"index symbols",
	} {
		assert.Contains(t, out, want)
	}
}

func TestInspectUnknownLanguage(t *testing.T) {
	_, err := execute(t, "inspect", "--plain", "-l", "cobol", "testdata/math.yaml")
	assert.Error(t, err)
}

func TestTypesCommand(t *testing.T) {
	out, err := execute(t, "types", "testdata/math.yaml")
	require.NoError(t, err)
	for _, want := range []string{"type", "canonical", "ffi", "go", "kotlin", "sequence<f64>", "Accumulator", "Rounding"} {
		assert.Contains(t, out, want)
	}

	out, err = execute(t, "types", "-l", "go", "testdata/math.yaml")
	require.NoError(t, err)
	assert.NotContains(t, out, "kotlin")
	assert.Contains(t, out, "[]float64")
}

func loadModel(t *testing.T) []section {
	t.Helper()
	ci, err := component.LoadFile("testdata/math.yaml")
	require.NoError(t, err)
	o, err := bindgen.Oracle("kotlin", ci)
	require.NoError(t, err)
	sections, err := describe(ci, o)
	require.NoError(t, err)
	return sections
}

func TestDescribe(t *testing.T) {
	sections := loadModel(t)
	require.Len(t, sections, 8)

	kinds := make([]string, len(sections))
	for i, s := range sections {
		kinds[i] = s.kind
	}
	assert.Equal(t, []string{"enum", "record", "error", "func", "object", "callback", "index", "index"}, kinds)

	record := sections[1]
	assert.Contains(t, record.body, "canonical")
	assert.Contains(t, record.body, "fields")
	assert.True(t, strings.Contains(record.body, "= "), "defaults are rendered")
}

func TestInspector(t *testing.T) {
	sections := loadModel(t)
	m := newInspector("math (kotlin)", sections)
	assert.Equal(t, sections[0].Title(), m.shown)

	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = model.(*inspector)
	assert.Contains(t, m.View(), "math (kotlin)")

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(*inspector)
	assert.Equal(t, sections[1].Title(), m.shown)
	assert.Contains(t, m.detail.View(), "Settings")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}
