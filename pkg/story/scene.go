package story

import (
	"slices"
	"strings"
)

// Choice is a labeled directed edge from a scene to a target key.
// The target does not need to resolve to an existing scene.
type Choice struct {
	Label  string // Text shown to the reader
	Target string // Key of the scene this choice leads to
}

// NoChoices is the sentinel passed to [Scene.UpdateContent] or
// [Story.EditScene] to clear a scene's choice list. Any empty non-nil
// slice behaves the same; a nil slice leaves the choices untouched.
var NoChoices = []Choice{}

// Scene is a single node in the narrative graph: a key, narrative text,
// and an ordered list of outgoing choices. The key is immutable after
// creation - renaming is delete plus recreate.
//
// The parent back-reference is a relation, not ownership: it reflects the
// last link established and is maintained by [Story], never by Scene
// itself. Multiple scenes' choice tables may point at the same key.
type Scene struct {
	key     string
	text    string
	parent  *Scene
	choices []Choice
}

// NewScene creates a scene with the given key and narrative text.
// The scene starts detached: no parent, no choices.
func NewScene(key, text string) *Scene {
	return &Scene{key: key, text: text}
}

// Key returns the scene's immutable identity.
func (s *Scene) Key() string { return s.key }

// Text returns the scene's narrative text.
func (s *Scene) Text() string { return s.text }

// Parent returns the scene's parent back-reference, or nil for the root
// and for detached scenes.
func (s *Scene) Parent() *Scene { return s.parent }

// AddChoice appends a choice to target with the given label.
// Returns false without overwriting if a choice to target already exists.
func (s *Scene) AddChoice(label, target string) bool {
	if s.hasChoice(target) {
		return false
	}
	s.choices = append(s.choices, Choice{Label: label, Target: target})
	return true
}

// UpdateChoiceText replaces the label of the choice to target.
// Returns false if no choice to target exists.
func (s *Scene) UpdateChoiceText(target, label string) bool {
	for i := range s.choices {
		if s.choices[i].Target == target {
			s.choices[i].Label = label
			return true
		}
	}
	return false
}

// RemoveChoice deletes the choice to target if present.
// Returns false if no choice to target exists.
func (s *Scene) RemoveChoice(target string) bool {
	if !s.hasChoice(target) {
		return false
	}
	s.choices = slices.DeleteFunc(s.choices, func(c Choice) bool { return c.Target == target })
	return true
}

// ChoiceLabel returns the label of the choice to target and whether such
// a choice exists.
func (s *Scene) ChoiceLabel(target string) (string, bool) {
	for _, c := range s.choices {
		if c.Target == target {
			return c.Label, true
		}
	}
	return "", false
}

// Choices returns a snapshot of the scene's choices in insertion order.
// Modifying the returned slice does not affect the scene.
func (s *Scene) Choices() []Choice { return slices.Clone(s.choices) }

// ChoiceCount returns the number of outgoing choices.
func (s *Scene) ChoiceCount() int { return len(s.choices) }

// UpdateContent applies an edit to the scene's text and choices and
// reports whether anything actually changed.
//
// Text is replaced only when newText trims to a non-empty string that
// differs from the current text; empty or whitespace-only input leaves
// the text alone without being an error.
//
// The choices parameter is a three-way union: nil leaves the choice list
// untouched, an empty non-nil slice ([NoChoices]) clears it, and anything
// else replaces the list - but only if it differs from the current one
// under key-for-key equality (same size, same label per target). Passing
// an equal set is a no-op.
func (s *Scene) UpdateContent(newText string, choices []Choice) bool {
	changed := false

	if t := strings.TrimSpace(newText); t != "" && newText != s.text {
		s.text = newText
		changed = true
	}

	switch {
	case choices == nil:
		// Leave choices untouched.
	case len(choices) == 0:
		if len(s.choices) > 0 {
			s.choices = nil
			changed = true
		}
	default:
		if !sameChoices(s.choices, choices) {
			s.choices = slices.Clone(choices)
			changed = true
		}
	}

	return changed
}

func (s *Scene) hasChoice(target string) bool {
	return slices.ContainsFunc(s.choices, func(c Choice) bool { return c.Target == target })
}

// sameChoices reports key-for-key equality: same size and same label per
// target. Order is not significant.
func sameChoices(a, b []Choice) bool {
	if len(a) != len(b) {
		return false
	}
	labels := make(map[string]string, len(a))
	for _, c := range a {
		labels[c.Target] = c.Label
	}
	for _, c := range b {
		label, ok := labels[c.Target]
		if !ok || label != c.Label {
			return false
		}
	}
	return true
}
