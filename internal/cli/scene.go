package cli

import (
	"strings"

	"github.com/spf13/cobra"

	loomerrors "github.com/matzehuels/storyloom/pkg/errors"
	"github.com/matzehuels/storyloom/pkg/story"
)

// addCommand creates the "add" command for inserting a scene.
func (c *CLI) addCommand() *cobra.Command {
	var (
		text   string
		parent string
		label  string
	)

	cmd := &cobra.Command{
		Use:   "add <slug> <key>",
		Short: "Add a scene to a story",
		Long: `Add a scene to a story. Without --parent the new scene is linked
under whichever scene already points at its key, or under the root with
an auto-generated choice. With --parent the link is made from that scene,
optionally labeled with --label.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, key := args[0], args[1]
			if err := loomerrors.ValidateSceneKey(key); err != nil {
				return err
			}

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			rec, st, err := c.loadStory(cmd.Context(), s, slug)
			if err != nil {
				return err
			}

			// An explicit parent is expressed as a choice edge before
			// insertion so AddScene's parent discovery picks it up.
			if parent != "" {
				p, found := st.Scene(parent)
				if !found {
					return loomerrors.New(loomerrors.ErrCodeSceneNotFound, "no scene %q", parent)
				}
				edgeLabel := label
				if edgeLabel == "" {
					edgeLabel = "to " + key
				}
				p.AddChoice(edgeLabel, key)
			}

			if !st.AddScene(story.NewScene(key, text)) {
				return loomerrors.New(loomerrors.ErrCodeDuplicateKey, "scene %q already exists", key)
			}
			if err := c.saveStory(cmd.Context(), s, rec, st); err != nil {
				return err
			}

			sc, _ := st.Scene(key)
			printSuccess("Added scene %s", StyleHighlight.Render(key))
			if p := sc.Parent(); p != nil {
				printDetail("Linked under %s (depth %d)", p.Key(), st.SceneDepth(sc))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "scene text")
	cmd.Flags().StringVar(&parent, "parent", "", "scene to link the new scene under")
	cmd.Flags().StringVar(&label, "label", "", "choice label on the link from the parent")

	return cmd
}

// editCommand creates the "edit" command for changing a scene's content.
func (c *CLI) editCommand() *cobra.Command {
	var (
		text        string
		choicePairs []string
		clear       bool
	)

	cmd := &cobra.Command{
		Use:   "edit <slug> <key>",
		Short: "Edit a scene's text and choices",
		Long: `Edit a scene. --text replaces the scene text when it differs.
--choice "label=target" (repeatable) replaces the whole choice list;
--clear removes all choices. Without either flag the choices are left
untouched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, key := args[0], args[1]

			choices, err := parseChoices(choicePairs, clear)
			if err != nil {
				return err
			}

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			rec, st, err := c.loadStory(cmd.Context(), s, slug)
			if err != nil {
				return err
			}
			if _, found := st.Scene(key); !found {
				return loomerrors.New(loomerrors.ErrCodeSceneNotFound, "no scene %q", key)
			}

			if !st.EditScene(key, text, choices) {
				printInfo("Scene %s unchanged", key)
				return nil
			}
			if err := c.saveStory(cmd.Context(), s, rec, st); err != nil {
				return err
			}
			printSuccess("Updated scene %s", StyleHighlight.Render(key))
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "new scene text")
	cmd.Flags().StringArrayVar(&choicePairs, "choice", nil, `choice as "label=target" (repeatable, replaces all)`)
	cmd.Flags().BoolVar(&clear, "clear", false, "remove all choices from the scene")

	return cmd
}

// parseChoices converts repeated "label=target" flags into a choice
// list. clear wins over pairs; no pairs and no clear yields nil, which
// leaves the scene's choices untouched.
func parseChoices(pairs []string, clear bool) ([]story.Choice, error) {
	if clear {
		return story.NoChoices, nil
	}
	if len(pairs) == 0 {
		return nil, nil
	}
	choices := make([]story.Choice, 0, len(pairs))
	for _, pair := range pairs {
		label, target, found := strings.Cut(pair, "=")
		if !found || target == "" {
			return nil, loomerrors.New(loomerrors.ErrCodeInvalidInput,
				"choice %q must have the form label=target", pair)
		}
		choices = append(choices, story.Choice{Label: label, Target: target})
	}
	return choices, nil
}

// moveCommand creates the "move" command for reparenting a scene.
func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <slug> <key> <new-parent>",
		Short: "Move a scene under a different parent",
		Long: `Move a scene under a different parent scene. The choice label on
the old link is carried over to the new one.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, key, newParent := args[0], args[1], args[2]

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			rec, st, err := c.loadStory(cmd.Context(), s, slug)
			if err != nil {
				return err
			}

			if !st.ChangeSceneParent(key, newParent) {
				return loomerrors.New(loomerrors.ErrCodeInvalidInput,
					"cannot move %q under %q", key, newParent)
			}
			if err := c.saveStory(cmd.Context(), s, rec, st); err != nil {
				return err
			}

			sc, _ := st.Scene(key)
			printSuccess("Moved scene %s under %s", StyleHighlight.Render(key), newParent)
			printDetail("New depth: %d", st.SceneDepth(sc))
			return nil
		},
	}
}

// rmCommand creates the "rm" command for cascade-deleting a scene.
func (c *CLI) rmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <slug> <key>",
		Short: "Remove a scene and everything reachable from it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, key := args[0], args[1]

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			rec, st, err := c.loadStory(cmd.Context(), s, slug)
			if err != nil {
				return err
			}

			before := st.Len()
			if !st.RemoveScene(key) {
				return loomerrors.New(loomerrors.ErrCodeSceneNotFound, "no scene %q", key)
			}
			if err := c.saveStory(cmd.Context(), s, rec, st); err != nil {
				return err
			}

			removed := before - st.Len()
			printSuccess("Removed %d scene(s)", removed)
			printDetail("%d remaining in %s", st.Len(), slug)
			return nil
		},
	}
}
