// Command bindgen generates foreign-language bindings from interface models.
//
//	bindgen generate -l kotlin -l go -o out/ --config bindgen.yaml models/*.yaml
//	bindgen inspect -l go models/math.yaml
//	bindgen types models/math.yaml
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/ffi-bindgen/backend"
	"github.com/wippyai/ffi-bindgen/ffi"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "bindgen",
		Short: "Generate foreign-language bindings for native components",
		Long: `bindgen renders Kotlin and Go bindings for a native component described
by an interface model (YAML or JSON).

Use 'bindgen generate' to write bindings, 'bindgen inspect' to browse how a
target names and encodes each entity, and 'bindgen types' for the type table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			backend.SetLogger(logger)
			ffi.SetLogger(logger)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log generation steps")

	root.AddCommand(generateCmd(), inspectCmd(), typesCmd())
	return root
}

// newLogger logs debug output in verbose mode and only warnings otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
