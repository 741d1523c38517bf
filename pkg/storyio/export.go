package storyio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/storyloom/pkg/story"
)

// WriteJSON encodes a story as indented JSON and writes it to w.
// Object keys follow scene insertion order, so output is deterministic
// and can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(st *story.Story, w io.Writer) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	// Indent by hand: json.Encoder would re-sort nothing, but Indent
	// keeps the custom key order intact.
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("indent: %w", err)
	}
	buf.WriteByte('\n')

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportJSON writes a story to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(st *story.Story, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(st, f)
}
