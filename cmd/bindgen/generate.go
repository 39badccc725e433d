package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	bindgen "github.com/wippyai/ffi-bindgen"
	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/component"
	"github.com/wippyai/ffi-bindgen/errors"
)

type generateOptions struct {
	langs       []string
	outDir      string
	configPath  string
	packageName string
	cdylib      string
}

func generateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [flags] <model>...",
		Short: "Write bindings for one or more interface models",
		Long: `Write bindings for each model and each --lang into the output directory.

Models may be glob patterns; ** matches across directories. Settings are
taken from the flags first, then from the --config file, then from the
target defaults. Nothing is written unless every binding renders.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args, cmd.OutOrStdout())
		},
	}
	addGenerateFlags(cmd.Flags(), opts)
	return cmd
}

func addGenerateFlags(fs *pflag.FlagSet, opts *generateOptions) {
	fs.StringArrayVarP(&opts.langs, "lang", "l", nil,
		fmt.Sprintf("Target language, repeatable (%s)", strings.Join(bindgen.Targets(), ", ")))
	fs.StringVarP(&opts.outDir, "out", "o", ".", "Output directory")
	fs.StringVar(&opts.configPath, "config", "", "Binding configuration file (bindgen.yaml)")
	fs.StringVar(&opts.packageName, "package", "", "Package name for every target, overriding the config file")
	fs.StringVar(&opts.cdylib, "cdylib", "", "Native library name for every target, overriding the config file")
}

func runGenerate(ctx context.Context, opts *generateOptions, patterns []string, w io.Writer) error {
	if len(opts.langs) == 0 {
		return errors.InvalidInput(errors.PhaseGenerate, "no target language given; use --lang")
	}
	for _, lang := range opts.langs {
		if _, err := bindgen.Lookup(lang); err != nil {
			return err
		}
	}

	models, err := expandModels(patterns)
	if err != nil {
		return err
	}

	var fileCfg backend.FileConfig
	if opts.configPath != "" {
		if fileCfg, err = backend.LoadConfig(opts.configPath); err != nil {
			return err
		}
	}
	flagCfg := backend.Config{PackageName: opts.packageName, CdylibName: opts.cdylib}

	var jobs []bindgen.Job
	for _, model := range models {
		ci, err := component.LoadFile(model)
		if err != nil {
			return err
		}
		for _, lang := range opts.langs {
			jobs = append(jobs, bindgen.Job{
				Interface: ci,
				Target:    lang,
				Config:    flagCfg.MergeWith(fileCfg.For(lang)),
			})
		}
	}

	files, err := bindgen.GenerateAll(ctx, jobs)
	if err != nil {
		return err
	}
	if err := bindgen.WriteFiles(opts.outDir, files); err != nil {
		return err
	}

	for _, f := range files {
		fmt.Fprintf(w, "%s %s %s\n",
			color.GreenString("wrote"),
			filepath.Join(opts.outDir, filepath.FromSlash(f.Path)),
			color.HiBlackString("(%d bytes)", len(f.Contents)))
	}
	fmt.Fprintf(w, "%s %d model(s), %d file(s)\n", color.CyanString("done:"), len(models), len(files))
	return nil
}

// expandModels resolves glob patterns. Plain paths are kept as given; a
// pattern matching nothing is an error.
func expandModels(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var models []string
	for _, p := range patterns {
		if !strings.ContainsAny(p, "*?[{") {
			if !seen[p] {
				seen[p] = true
				models = append(models, p)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "model pattern "+p)
		}
		if len(matches) == 0 {
			return nil, errors.NotFound(errors.PhaseLoad, "model matching", p)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				models = append(models, m)
			}
		}
	}
	return models, nil
}
