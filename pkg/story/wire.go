package story

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

var (
	// ErrMalformedScene is returned when a scene record is missing a
	// string "text" field or cannot be decoded at all.
	ErrMalformedScene = errors.New("malformed scene record")

	// ErrMalformedStory is returned by [Unmarshal] when the input is not
	// a JSON object keyed by scene keys.
	ErrMalformedStory = errors.New("story data is not an object")

	// ErrEmptyStory is returned by [Unmarshal] when decoding succeeds but
	// the resulting story contains no scenes.
	ErrEmptyStory = errors.New("story has no scenes")
)

// ChoiceData is the wire form of a single choice.
type ChoiceData struct {
	Text string `json:"text"` // Choice label
	Next string `json:"next"` // Target scene key
}

// SceneData is the wire form of a scene. The choices field is omitted
// entirely when the scene has none - it is never emitted as an empty
// array, and round-trip tests depend on that.
type SceneData struct {
	Text    string       `json:"text"`
	Choices []ChoiceData `json:"choices,omitempty"`
}

// UnmarshalJSON decodes a scene record. It fails with [ErrMalformedScene]
// when the record is not an object or its "text" field is missing or not
// a string. Malformed individual choice entries - missing "text" or
// "next" as strings - are silently skipped, not fatal.
func (d *SceneData) UnmarshalJSON(b []byte) error {
	var raw struct {
		Text    *string           `json:"text"`
		Choices []json.RawMessage `json:"choices"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedScene, err)
	}
	if raw.Text == nil {
		return fmt.Errorf("%w: missing text", ErrMalformedScene)
	}

	d.Text = *raw.Text
	d.Choices = nil
	for _, rc := range raw.Choices {
		var c struct {
			Text *string `json:"text"`
			Next *string `json:"next"`
		}
		if err := json.Unmarshal(rc, &c); err != nil || c.Text == nil || c.Next == nil {
			continue
		}
		d.Choices = append(d.Choices, ChoiceData{Text: *c.Text, Next: *c.Next})
	}
	return nil
}

// Data returns the scene's wire form: its text plus a snapshot of its
// choices in insertion order. Choices is nil when the scene has none so
// that JSON encoding omits the field.
func (s *Scene) Data() SceneData {
	d := SceneData{Text: s.text}
	for _, c := range s.choices {
		d.Choices = append(d.Choices, ChoiceData{Text: c.Label, Next: c.Target})
	}
	return d
}

// SceneFromData builds a detached scene from its wire form. Duplicate
// targets in the record collapse to the first occurrence, matching the
// choice table's mapping semantics.
func SceneFromData(key string, d SceneData) *Scene {
	sc := NewScene(key, d.Text)
	for _, c := range d.Choices {
		sc.AddChoice(c.Text, c.Next)
	}
	return sc
}

// MarshalJSON encodes the story as a JSON object mapping each scene key
// to its [SceneData], with object keys in scene insertion order. Together
// with [Unmarshal] this gives byte-identical round trips for stories
// whose scenes are all reachable.
func (st *Story) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range st.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(st.scenes[key].Data())
		if err != nil {
			return nil, fmt.Errorf("encode scene %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Unmarshal decodes a story from its wire form, adding scenes in input
// order through [Story.AddScene] so parent links are re-established the
// same way interactive editing establishes them.
//
// It aborts on the first scene record that fails to parse, returns
// [ErrMalformedStory] when the input is not a JSON object, and
// [ErrEmptyStory] when the result holds no scenes. The logger is passed
// through to the new story; nil discards warnings.
func Unmarshal(data []byte, logger *log.Logger) (*Story, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStory, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrMalformedStory
	}

	st := New(logger)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedStory, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, ErrMalformedStory
		}

		var d SceneData
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("scene %q: %w", key, err)
		}
		st.AddScene(SceneFromData(key, d))
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStory, err)
	}

	if st.Len() == 0 {
		return nil, ErrEmptyStory
	}
	return st, nil
}
