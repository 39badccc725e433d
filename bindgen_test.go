package bindgen

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

const mathModel = `
namespace: math
errors:
  - name: MathError
    variants: [DivisionByZero]
functions:
  - name: divide
    arguments:
      - {name: a, type: i32}
      - {name: b, type: i32}
    returns: i32
    throws: MathError
objects:
  - name: Counter
    constructors:
      - name: new
        arguments: [{name: start, type: i32}]
    methods:
      - name: value
        returns: i32
`

func loadMath(t *testing.T) *component.Interface {
	t.Helper()
	ci, err := component.Parse([]byte(mathModel))
	require.NoError(t, err)
	return ci
}

func regularFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(dir, p)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestTargets(t *testing.T) {
	assert.Equal(t, []string{"go", "kotlin"}, Targets())

	for _, name := range Targets() {
		target, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, target.Name())
	}

	ci := loadMath(t)
	for _, name := range Targets() {
		o, err := Oracle(name, ci)
		require.NoError(t, err)
		ct, err := o.Find(component.Int32())
		require.NoError(t, err)
		assert.NotEmpty(t, ct.TypeLabel())
	}
	_, err := Oracle("swift", ci)
	assert.Error(t, err)

	_, err = Lookup("swift")
	require.Error(t, err)
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, errors.KindNotFound, e.Kind)
}

func TestGenerate(t *testing.T) {
	ci := loadMath(t)

	files, err := Generate(ci, "kotlin", backend.Config{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "uniffi/math/math.kt", files[0].Path)
	assert.Contains(t, string(files[0].Contents), "package uniffi.math")

	files, err = Generate(ci, "go", backend.Config{PackageName: "example.com/mathbind"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "example.com/mathbind/math.go", files[0].Path)
	assert.Contains(t, string(files[0].Contents), "package mathbind")

	_, err = Generate(ci, "swift", backend.Config{})
	assert.Error(t, err)
}

func TestGenerateAll(t *testing.T) {
	ci := loadMath(t)
	jobs := []Job{
		{Interface: ci, Target: "kotlin"},
		{Interface: ci, Target: "go"},
		{Interface: ci, Target: "kotlin", Config: backend.Config{PackageName: "com.example.math"}},
	}

	files, err := GenerateAll(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "uniffi/math/math.kt", files[0].Path)
	assert.Equal(t, "math/math.go", files[1].Path)
	assert.Equal(t, "com/example/math/math.kt", files[2].Path)

	again, err := GenerateAll(context.Background(), jobs)
	require.NoError(t, err)
	assert.Equal(t, files, again)
}

func TestGenerateAllFailure(t *testing.T) {
	ci := loadMath(t)
	jobs := []Job{
		{Interface: ci, Target: "go"},
		{Interface: ci, Target: "cobol"},
	}
	files, err := GenerateAll(context.Background(), jobs)
	require.Error(t, err)
	assert.Nil(t, files)
	assert.Contains(t, err.Error(), "cobol")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = GenerateAll(ctx, []Job{{Interface: ci, Target: "go"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	files := []backend.File{
		{Path: "uniffi/math/math.kt", Contents: []byte("package uniffi.math\n")},
		{Path: "math/math.go", Contents: []byte("package math\n")},
	}
	require.NoError(t, WriteFiles(dir, files))

	assert.ElementsMatch(t, []string{"uniffi/math/math.kt", "math/math.go"}, regularFiles(t, dir))
	data, err := os.ReadFile(filepath.Join(dir, "math", "math.go"))
	require.NoError(t, err)
	assert.Equal(t, "package math\n", string(data))

	// Rewriting replaces the previous contents.
	files[1].Contents = []byte("package math // v2\n")
	require.NoError(t, WriteFiles(dir, files))
	data, err = os.ReadFile(filepath.Join(dir, "math", "math.go"))
	require.NoError(t, err)
	assert.Equal(t, "package math // v2\n", string(data))
}

func TestWriteFilesFailure(t *testing.T) {
	tests := []struct {
		name  string
		files []backend.File
		kind  errors.Kind
	}{
		{"parent escape", []backend.File{
			{Path: "ok.kt", Contents: []byte("ok")},
			{Path: "../escape.kt", Contents: []byte("bad")},
		}, errors.KindInvalidInput},
		{"nested escape", []backend.File{
			{Path: "ok.kt", Contents: []byte("ok")},
			{Path: "a/../../escape.kt", Contents: []byte("bad")},
		}, errors.KindInvalidInput},
		{"absolute path", []backend.File{
			{Path: "ok.kt", Contents: []byte("ok")},
			{Path: "/tmp/escape.kt", Contents: []byte("bad")},
		}, errors.KindInvalidInput},
		{"empty path", []backend.File{
			{Path: "ok.kt", Contents: []byte("ok")},
			{Path: "", Contents: []byte("bad")},
		}, errors.KindInvalidInput},
		{"duplicate path", []backend.File{
			{Path: "ok.kt", Contents: []byte("ok")},
			{Path: "./ok.kt", Contents: []byte("again")},
		}, errors.KindDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			err := WriteFiles(dir, tt.files)
			require.Error(t, err)
			var e *errors.Error
			require.True(t, stderrors.As(err, &e))
			assert.Equal(t, tt.kind, e.Kind)
			assert.Empty(t, regularFiles(t, dir))
		})
	}
}

func TestWriteFilesBlockedDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uniffi"), []byte("not a directory"), 0o644))

	err := WriteFiles(dir, []backend.File{
		{Path: "first.kt", Contents: []byte("first")},
		{Path: "uniffi/math/math.kt", Contents: []byte("second")},
	})
	require.Error(t, err)
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, errors.KindIO, e.Kind)
	assert.Equal(t, errors.PhaseOutput, e.Phase)

	left := regularFiles(t, dir)
	assert.Equal(t, []string{"uniffi"}, left)
	for _, f := range left {
		assert.False(t, strings.HasPrefix(filepath.Base(f), "."), "staged file %s left behind", f)
	}
}
