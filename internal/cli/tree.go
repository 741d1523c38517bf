package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyloom/pkg/render"
)

// treeCommand creates the "tree" command for printing the story graph.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		plain bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "tree <slug>",
		Short: "Print the branching structure as an indented tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			_, st, err := c.loadStory(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}

			out := render.Tree(st, render.TreeOptions{Plain: plain, MaxTextLen: width})
			if out == "" {
				printInfo("Story %s has no scenes", args[0])
				return nil
			}
			fmt.Print(out)
			printStats(st.Len(), choiceCount(st), st.HasCircle())
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors and styling")
	cmd.Flags().IntVar(&width, "width", 0, "max scene text length per line (0 = default)")

	return cmd
}

// checkCommand creates the "check" command for cycle reporting.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <slug>",
		Short: "Report whether the story loops back on itself",
		Long: `Report whether following choices from the root can revisit an
earlier scene. Loops are legal - stories may deliberately circle back -
so this is a report, not an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			_, st, err := c.loadStory(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}

			if st.HasCircle() {
				printWarning("Story %s loops back on itself", args[0])
			} else {
				printSuccess("Story %s has no loops", args[0])
			}
			printDetail("%d scenes, %d choices", st.Len(), choiceCount(st))
			return nil
		},
	}
}
