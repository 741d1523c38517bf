package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	loomerrors "github.com/matzehuels/storyloom/pkg/errors"
	"github.com/matzehuels/storyloom/pkg/story"
	"github.com/matzehuels/storyloom/pkg/storyio"
)

// Player styles
var (
	playSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	playNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	playDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	playTextStyle     = lipgloss.NewStyle().Foreground(colorWhite).Width(72)
	playEndStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// =============================================================================
// PlayerModel - Interactive story playback
// =============================================================================

// PlayerModel is the bubbletea model for walking through a story.
type PlayerModel struct {
	Story   *story.Story
	Title   string
	Current *story.Scene
	Cursor  int
	Steps   int

	// notice holds a one-shot warning, e.g. for a choice whose target
	// scene does not exist.
	notice string
}

// NewPlayerModel creates a player positioned at the story's root.
func NewPlayerModel(st *story.Story, title string) PlayerModel {
	return PlayerModel{
		Story:   st,
		Title:   title,
		Current: st.Root(),
	}
}

func (m PlayerModel) Init() tea.Cmd {
	return nil
}

func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	choices := m.choices()

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		m.Current = m.Story.Root()
		m.Cursor = 0
		m.Steps = 0
		m.notice = ""
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(choices)-1 {
			m.Cursor++
		}
	case "enter":
		if len(choices) == 0 {
			return m, tea.Quit
		}
		target := choices[m.Cursor].Target
		next, found := m.Story.Scene(target)
		if !found {
			m.notice = fmt.Sprintf("the path %q leads nowhere yet", target)
			return m, nil
		}
		m.Current = next
		m.Cursor = 0
		m.Steps++
		m.notice = ""
	}
	return m, nil
}

// choices returns the current scene's choices, or nil at a dead end.
func (m PlayerModel) choices() []story.Choice {
	if m.Current == nil {
		return nil
	}
	return m.Current.Choices()
}

func (m PlayerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(playDimStyle.Render("↑/↓ navigate  ⏎ choose  r restart  q quit"))
	b.WriteString("\n\n")

	if m.Current == nil {
		b.WriteString(playDimStyle.Render("This story has no scenes."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(playTextStyle.Render(m.Current.Text()))
	b.WriteString("\n\n")

	choices := m.choices()
	if len(choices) == 0 {
		b.WriteString(playEndStyle.Render("The End"))
		b.WriteString("\n\n")
		b.WriteString(playDimStyle.Render(fmt.Sprintf("%d choices made · r to start over · ⏎ to leave", m.Steps)))
		b.WriteString("\n")
		return b.String()
	}

	for i, ch := range choices {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + ch.Label
		if i == m.Cursor {
			b.WriteString(playSelectedStyle.Render(line))
		} else {
			b.WriteString(playNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(iconWarning + " " + m.notice))
		b.WriteString("\n")
	}

	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// playCommand creates the "play" command for interactive playback.
func (c *CLI) playCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "play [slug]",
		Short: "Play a story interactively in the terminal",
		Long: `Play a story interactively: the scene text is shown with its
choices, and picking one follows the link. Use --file to play a story
straight from a JSON export instead of the store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				st    *story.Story
				title string
			)

			switch {
			case file != "":
				loaded, err := storyio.ImportJSON(file, c.Logger)
				if err != nil {
					return err
				}
				st, title = loaded, file
			case len(args) == 1:
				s, err := c.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer s.Close()

				rec, loaded, err := c.loadStory(cmd.Context(), s, args[0])
				if err != nil {
					return err
				}
				st, title = loaded, rec.Title
			default:
				return loomerrors.New(loomerrors.ErrCodeInvalidInput, "pass a story slug or --file")
			}

			if st.Root() == nil {
				return loomerrors.New(loomerrors.ErrCodeInvalidInput, "story has no scenes to play")
			}

			_, err := tea.NewProgram(NewPlayerModel(st, title)).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "play a JSON story file instead of a stored story")

	return cmd
}
