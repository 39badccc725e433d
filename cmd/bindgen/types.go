package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	bindgen "github.com/wippyai/ffi-bindgen"
	"github.com/wippyai/ffi-bindgen/component"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func typesCmd() *cobra.Command {
	var langs []string
	cmd := &cobra.Command{
		Use:   "types [flags] <model>",
		Short: "Print every type of a model with its spelling per target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ci, err := component.LoadFile(args[0])
			if err != nil {
				return err
			}
			if len(langs) == 0 {
				langs = bindgen.Targets()
			}
			out, err := typeTable(ci, langs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&langs, "lang", "l", nil, "Target language, repeatable (default all)")
	return cmd
}

// typeTable renders one row per type: its model name, its canonical name, its
// FFI transport and its spelling in each target.
func typeTable(ci *component.Interface, langs []string) (string, error) {
	headers := []string{"type", "canonical", "ffi"}
	oracles := make([]func(component.Type) (string, error), 0, len(langs))
	for _, lang := range langs {
		o, err := bindgen.Oracle(lang, ci)
		if err != nil {
			return "", err
		}
		headers = append(headers, lang)
		oracles = append(oracles, func(t component.Type) (string, error) {
			ct, err := o.Find(t)
			if err != nil {
				return "", err
			}
			return ct.TypeLabel(), nil
		})
	}

	var rows [][]string
	for _, t := range ci.IterTypes() {
		row := []string{t.String(), t.CanonicalName(), ci.FFIType(t).String()}
		for _, label := range oracles {
			l, err := label(t)
			if err != nil {
				return "", err
			}
			row = append(row, l)
		}
		rows = append(rows, row)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return tbl.String(), nil
}
