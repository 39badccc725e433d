package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	bindgen "github.com/wippyai/ffi-bindgen"
	"github.com/wippyai/ffi-bindgen/component"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func inspectCmd() *cobra.Command {
	var (
		lang  string
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "inspect [flags] <model>",
		Short: "Browse how a target names and encodes each entity",
		Long: `Show every entity of a model as the target renders it: type names, helper
names, FFI transport types and native symbols. An interactive browser opens
when stdout is a terminal; otherwise, or with --plain, a listing is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ci, err := component.LoadFile(args[0])
			if err != nil {
				return err
			}
			o, err := bindgen.Oracle(lang, ci)
			if err != nil {
				return err
			}
			sections, err := describe(ci, o)
			if err != nil {
				return err
			}
			if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
				title := ci.Namespace() + " (" + lang + ")"
				_, err := tea.NewProgram(newInspector(title, sections), tea.WithAltScreen()).Run()
				return err
			}
			printSections(cmd.OutOrStdout(), sections)
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "kotlin", "Target language")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print a listing instead of the interactive browser")
	return cmd
}

// inspector lists sections on the left and shows the selected one on the
// right.
type inspector struct {
	list     list.Model
	detail   viewport.Model
	shown    string
	quitting bool
}

func newInspector(title string, sections []section) *inspector {
	items := make([]list.Item, len(sections))
	for i, s := range sections {
		items[i] = s
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("#7D56F4")).
		BorderForeground(lipgloss.Color("#7D56F4"))

	l := list.New(items, delegate, 40, 20)
	l.Title = title
	l.Styles.Title = titleStyle
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	m := &inspector{list: l, detail: viewport.New(60, 20)}
	m.sync()
	return m
}

func (m *inspector) Init() tea.Cmd { return nil }

func (m *inspector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		listWidth := msg.Width / 3
		m.list.SetSize(listWidth, msg.Height-2)
		m.detail.Width = msg.Width - listWidth - detailStyle.GetHorizontalFrameSize()
		m.detail.Height = msg.Height - 2 - detailStyle.GetVerticalFrameSize()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "q", "esc":
				if m.list.FilterState() == list.Unfiltered {
					m.quitting = true
					return m, tea.Quit
				}
			case "pgup", "pgdown", "ctrl+u", "ctrl+d":
				var cmd tea.Cmd
				m.detail, cmd = m.detail.Update(msg)
				return m, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	m.sync()
	return m, tea.Batch(cmds...)
}

// sync loads the selected section into the detail pane when it changed.
func (m *inspector) sync() {
	s, ok := m.list.SelectedItem().(section)
	if !ok {
		m.shown = ""
		m.detail.SetContent("")
		return
	}
	if s.Title() == m.shown {
		return
	}
	m.shown = s.Title()
	m.detail.SetContent(headingStyle.Render(s.Title()) + "\n\n" + strings.TrimRight(s.body, "\n"))
	m.detail.GotoTop()
}

func (m *inspector) View() string {
	if m.quitting {
		return ""
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), detailStyle.Render(m.detail.View()))
	return body + "\n" + helpStyle.Render("↑/↓ select • / filter • pgup/pgdown scroll • q quit")
}
