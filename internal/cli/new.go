package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	loomerrors "github.com/matzehuels/storyloom/pkg/errors"
	"github.com/matzehuels/storyloom/pkg/store"
	"github.com/matzehuels/storyloom/pkg/story"
)

// newCommand creates the "new" command for starting a story.
func (c *CLI) newCommand() *cobra.Command {
	var (
		title    string
		rootKey  string
		rootText string
	)

	cmd := &cobra.Command{
		Use:   "new <slug>",
		Short: "Create a new story with a root scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			if err := loomerrors.ValidateSlug(slug); err != nil {
				return err
			}
			if err := loomerrors.ValidateSceneKey(rootKey); err != nil {
				return err
			}
			if title == "" {
				title = slug
			}

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.Load(cmd.Context(), slug); err == nil {
				return loomerrors.New(loomerrors.ErrCodeDuplicateKey, "story %q already exists", slug)
			}

			st := story.New(c.Logger)
			st.AddScene(story.NewScene(rootKey, rootText))

			rec, err := store.NewRecord(slug, title, st)
			if err != nil {
				return err
			}
			if err := s.Save(cmd.Context(), rec); err != nil {
				return fmt.Errorf("save story %q: %w", slug, err)
			}

			printSuccess("Created story %s", StyleHighlight.Render(slug))
			printDetail("Root scene: %s", rootKey)
			printNextStep("Add a scene", fmt.Sprintf("%s add %s <key> --text '...'", appName, slug))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "display title (defaults to the slug)")
	cmd.Flags().StringVar(&rootKey, "root", "start", "key of the root scene")
	cmd.Flags().StringVar(&rootText, "text", "", "text of the root scene")

	return cmd
}

// listCommand creates the "list" command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored stories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			infos, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No stories yet")
				printNextStep("Create one", fmt.Sprintf("%s new <slug>", appName))
				return nil
			}
			for _, info := range infos {
				printKeyValue(info.Slug, fmt.Sprintf("%s %s", info.Title,
					StyleDim.Render("("+info.UpdatedAt.Format("Jan 2, 2006")+")")))
			}
			return nil
		},
	}
}
