package cli

import (
	"context"
	"errors"
	"fmt"

	loomerrors "github.com/matzehuels/storyloom/pkg/errors"
	"github.com/matzehuels/storyloom/pkg/store"
	"github.com/matzehuels/storyloom/pkg/story"
)

// loadStory fetches the record for slug from s and decodes its graph.
func (c *CLI) loadStory(ctx context.Context, s store.Store, slug string) (*store.Record, *story.Story, error) {
	rec, err := s.Load(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, loomerrors.New(loomerrors.ErrCodeStoryNotFound, "no story %q", slug)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load story %q: %w", slug, err)
	}
	st, err := rec.Story(c.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("decode story %q: %w", slug, err)
	}
	return rec, st, nil
}

// saveStory writes the mutated graph back into the record and store.
func (c *CLI) saveStory(ctx context.Context, s store.Store, rec *store.Record, st *story.Story) error {
	if err := rec.SetStory(st); err != nil {
		return fmt.Errorf("encode story %q: %w", rec.Slug, err)
	}
	if err := s.Save(ctx, rec); err != nil {
		return fmt.Errorf("save story %q: %w", rec.Slug, err)
	}
	return nil
}

// choiceCount sums the choices across all scenes.
func choiceCount(st *story.Story) int {
	total := 0
	for _, key := range st.Keys() {
		if sc, ok := st.Scene(key); ok {
			total += sc.ChoiceCount()
		}
	}
	return total
}
