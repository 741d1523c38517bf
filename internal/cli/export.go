package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	loomerrors "github.com/matzehuels/storyloom/pkg/errors"
	"github.com/matzehuels/storyloom/pkg/render"
	"github.com/matzehuels/storyloom/pkg/store"
	"github.com/matzehuels/storyloom/pkg/story"
	"github.com/matzehuels/storyloom/pkg/storyio"
)

// Export formats.
const (
	formatJSON = "json"
	formatHTML = "html"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formats string
		out     string
		htmlKey string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "export <slug>",
		Short: "Export a story as JSON, HTML, DOT, or SVG",
		Long: `Export a story. JSON is the canonical interchange format and
round-trips losslessly. HTML produces a standalone playable page. DOT
and SVG render the scene graph as a node-link diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			rec, st, err := c.loadStory(cmd.Context(), s, slug)
			if err != nil {
				return err
			}

			if htmlKey == "" {
				if cfg, err := c.Config(); err == nil {
					htmlKey = cfg.Export.Key
				}
			}

			prog := newProgress(c.Logger)
			var written []string
			for _, format := range parseFormats(formats) {
				path := outputPath(out, slug, format)
				if err := c.exportOne(cmd, st, rec, format, path, htmlKey, title); err != nil {
					return err
				}
				written = append(written, path)
			}
			prog.done(fmt.Sprintf("Exported %d scenes", st.Len()))

			printSuccess("Exported story %s", StyleHighlight.Render(slug))
			for _, path := range written {
				printFile(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", formatJSON, "comma-separated formats: json,html,dot,svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (defaults to <slug>.<format>)")
	cmd.Flags().StringVar(&htmlKey, "key", "", "obfuscation key for HTML export")
	cmd.Flags().StringVar(&title, "title", "", "page title for HTML export (defaults to the story title)")

	return cmd
}

// exportOne writes a single format to path.
func (c *CLI) exportOne(cmd *cobra.Command, st *story.Story, rec *store.Record, format, path, htmlKey, title string) error {
	switch format {
	case formatJSON:
		return storyio.ExportJSON(st, path)
	case formatHTML:
		if title == "" {
			title = rec.Title
		}
		return storyio.ExportHTML(st, path, storyio.HTMLOptions{Title: title, Key: htmlKey})
	case formatDOT:
		return os.WriteFile(path, []byte(render.ToDOT(st, render.DOTOptions{})), 0o644)
	case formatSVG:
		svg, err := render.RenderSVG(cmd.Context(), render.ToDOT(st, render.DOTOptions{}))
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		return os.WriteFile(path, svg, 0o644)
	default:
		return loomerrors.New(loomerrors.ErrCodeUnsupported, "unknown export format %q", format)
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatJSON}
	}
	return strings.Split(s, ",")
}

// outputPath resolves the output file for a format. An explicit --out
// is used verbatim for a single format and as a directory for several.
func outputPath(out, slug, format string) string {
	if out == "" {
		return slug + "." + format
	}
	if strings.Contains(out, ".") {
		return out
	}
	return filepath.Join(out, slug+"."+format)
}

// importCommand creates the "import" command.
func (c *CLI) importCommand() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "import <slug> <file>",
		Short: "Import a story from a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, file := args[0], args[1]
			if err := loomerrors.ValidateSlug(slug); err != nil {
				return err
			}

			st, err := storyio.ImportJSON(file, c.Logger)
			if err != nil {
				return err
			}

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if title == "" {
				title = slug
			}
			rec, err := store.NewRecord(slug, title, st)
			if err != nil {
				return err
			}
			if err := s.Save(cmd.Context(), rec); err != nil {
				return fmt.Errorf("save story %q: %w", slug, err)
			}

			printSuccess("Imported %d scenes into %s", st.Len(), StyleHighlight.Render(slug))
			printNextStep("Inspect it", fmt.Sprintf("%s tree %s", appName, slug))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "display title (defaults to the slug)")

	return cmd
}
