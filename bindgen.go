package bindgen

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/backend/golang"
	"github.com/wippyai/ffi-bindgen/backend/kotlin"
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

var targets = map[string]backend.Target{
	"go":     golang.New(),
	"kotlin": kotlin.New(),
}

var oracles = map[string]func(*component.Interface) backend.Oracle{
	"go":     func(ci *component.Interface) backend.Oracle { return golang.NewOracle(ci) },
	"kotlin": func(ci *component.Interface) backend.Oracle { return kotlin.NewOracle(ci) },
}

// Targets returns the names of the built-in targets, sorted.
func Targets() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the target registered under name.
func Lookup(name string) (backend.Target, error) {
	t, ok := targets[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseGenerate, "target", name)
	}
	return t, nil
}

// Oracle returns the naming and type oracle target uses for ci.
func Oracle(target string, ci *component.Interface) (backend.Oracle, error) {
	newOracle, ok := oracles[target]
	if !ok {
		return nil, errors.NotFound(errors.PhaseResolve, "target", target)
	}
	return newOracle(ci), nil
}

// Generate renders the bindings of ci for one target.
func Generate(ci *component.Interface, target string, cfg backend.Config) ([]backend.File, error) {
	t, err := Lookup(target)
	if err != nil {
		return nil, err
	}
	files, err := t.Generate(ci, cfg)
	if err != nil {
		return nil, errors.Attribute(err, ci.Namespace())
	}
	return files, nil
}

// Job is one generation request.
type Job struct {
	Interface *component.Interface
	Target    string
	Config    backend.Config
}

// GenerateAll runs jobs concurrently. Files are returned in job order; the
// first failing job in that order decides the error and no files are
// returned.
func GenerateAll(ctx context.Context, jobs []Job) ([]backend.File, error) {
	results := make([][]backend.File, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = Generate(job.Interface, job.Target, job.Config)
		}(i, job)
	}
	wg.Wait()

	var files []backend.File
	for i := range jobs {
		if errs[i] != nil {
			return nil, errs[i]
		}
		files = append(files, results[i]...)
	}
	return files, nil
}

// WriteFiles writes files under dir. Paths must stay inside dir. Every file
// is staged next to its destination and renamed into place once all of them
// are staged; a failure while staging removes the staged files and replaces
// nothing.
func WriteFiles(dir string, files []backend.File) error {
	type staged struct{ tmp, dest string }
	var done []staged
	cleanup := func() {
		for _, s := range done {
			_ = os.Remove(s.tmp)
		}
	}

	seen := make(map[string]bool)
	for _, f := range files {
		dest, err := outputPath(dir, f.Path)
		if err != nil {
			cleanup()
			return err
		}
		if seen[dest] {
			cleanup()
			return errors.Duplicate("output file", f.Path)
		}
		seen[dest] = true

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			cleanup()
			return errors.Wrap(errors.PhaseOutput, errors.KindIO, err, "create directory for "+f.Path)
		}
		tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
		if err != nil {
			cleanup()
			return errors.Wrap(errors.PhaseOutput, errors.KindIO, err, "stage "+f.Path)
		}
		done = append(done, staged{tmp: tmp.Name(), dest: dest})
		_, werr := tmp.Write(f.Contents)
		cerr := tmp.Close()
		if werr == nil {
			werr = cerr
		}
		if werr == nil {
			werr = os.Chmod(tmp.Name(), 0o644)
		}
		if werr != nil {
			cleanup()
			return errors.Wrap(errors.PhaseOutput, errors.KindIO, werr, "write "+f.Path)
		}
	}

	for i, s := range done {
		if err := os.Rename(s.tmp, s.dest); err != nil {
			cleanup()
			return errors.Wrap(errors.PhaseOutput, errors.KindIO, err, "install "+files[i].Path)
		}
		backend.Logger().Debug("wrote bindings", zap.String("path", s.dest), zap.Int("bytes", len(files[i].Contents)))
	}
	return nil
}

func outputPath(dir, rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if rel == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.InvalidInput(errors.PhaseOutput, "output path escapes the output directory: "+rel)
	}
	return filepath.Join(dir, clean), nil
}
