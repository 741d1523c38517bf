package storyio

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storyloom/pkg/story"
)

// ReadJSON decodes a JSON story from r.
//
// The input must be a JSON object mapping scene keys to scene records:
//
//	{
//	  "intro": {"text": "You wake up.", "choices": [{"text": "Go", "next": "cave"}]},
//	  "cave":  {"text": "It is dark."}
//	}
//
// Scenes are added in input order, so the first key becomes the root.
// Decoding aborts on the first malformed scene record and fails for
// non-object input or a story with zero scenes; see [story.Unmarshal]
// for the sentinel errors involved. The logger is attached to the
// returned story; nil discards its warnings. ReadJSON does not close r.
func ReadJSON(r io.Reader, logger *log.Logger) (*story.Story, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return story.Unmarshal(data, logger)
}

// ImportJSON reads a JSON file at path and returns the decoded story.
// Errors wrap the underlying cause with the file path for context.
func ImportJSON(path string, logger *log.Logger) (*story.Story, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	st, err := ReadJSON(f, logger)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return st, nil
}
