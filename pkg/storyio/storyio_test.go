package storyio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/storyloom/pkg/story"
)

func sampleStory(t *testing.T) *story.Story {
	t.Helper()
	st := story.New(nil)
	root := story.NewScene("intro", "You wake up in a forest.")
	root.AddChoice("Enter the cave", "cave")
	st.AddScene(root)
	st.AddScene(story.NewScene("cave", "It is pitch black."))
	return st
}

func TestWriteReadJSONRoundTrip(t *testing.T) {
	st := sampleStory(t)

	var buf bytes.Buffer
	if err := WriteJSON(st, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	decoded, err := ReadJSON(&buf, nil)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if decoded.Len() != 2 {
		t.Errorf("Len = %d, want 2", decoded.Len())
	}
	if decoded.Root() == nil || decoded.Root().Key() != "intro" {
		t.Error("first key should become root")
	}
}

func TestWriteJSONKeyOrder(t *testing.T) {
	st := sampleStory(t)

	var buf bytes.Buffer
	if err := WriteJSON(st, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	out := buf.String()
	if strings.Index(out, `"intro"`) > strings.Index(out, `"cave"`) {
		t.Errorf("keys should keep insertion order:\n%s", out)
	}
}

func TestExportImportJSONFiles(t *testing.T) {
	st := sampleStory(t)
	path := filepath.Join(t.TempDir(), "story.json")

	if err := ExportJSON(st, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	decoded, err := ImportJSON(path, nil)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if decoded.Len() != st.Len() {
		t.Errorf("Len = %d, want %d", decoded.Len(), st.Len())
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "nope.json"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "Plain", key: ""},
		{name: "Obfuscated", key: "hexenwald"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := sampleStory(t)

			payload, err := EncodePayload(st, tt.key)
			if err != nil {
				t.Fatalf("EncodePayload: %v", err)
			}
			decoded, err := DecodePayload(payload, tt.key, nil)
			if err != nil {
				t.Fatalf("DecodePayload: %v", err)
			}
			if decoded.Len() != 2 {
				t.Errorf("Len = %d, want 2", decoded.Len())
			}
			sc, ok := decoded.Scene("cave")
			if !ok || sc.Text() != "It is pitch black." {
				t.Error("scene text should survive the payload round trip")
			}
		})
	}
}

func TestDecodePayloadWrongKey(t *testing.T) {
	st := sampleStory(t)
	payload, err := EncodePayload(st, "right")
	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}
	if _, err := DecodePayload(payload, "wrong", nil); err == nil {
		t.Fatal("decoding with the wrong key should fail to parse")
	}
}

func TestXORTransformIsInvolution(t *testing.T) {
	data := []byte("the quick brown fox")
	key := "lantern"

	once := xorTransform(data, key)
	if bytes.Equal(once, data) {
		t.Error("transform with a key should change the bytes")
	}
	twice := xorTransform(once, key)
	if !bytes.Equal(twice, data) {
		t.Error("applying the transform twice should restore the input")
	}
}

func TestExportHTML(t *testing.T) {
	st := sampleStory(t)
	path := filepath.Join(t.TempDir(), "story.html")

	if err := ExportHTML(st, path, HTMLOptions{Title: "Forest", Key: "k"}); err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	for _, want := range []string{"<!DOCTYPE html>", "Forest", "var payload"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
	if strings.Contains(out, "pitch black") {
		t.Error("obfuscated export should not contain scene text in the clear")
	}
}
