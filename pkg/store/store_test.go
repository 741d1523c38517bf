package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/storyloom/pkg/story"
)

func sampleStory(t *testing.T) *story.Story {
	t.Helper()
	st := story.New(nil)
	root := story.NewScene("intro", "You wake up.")
	root.AddChoice("Onward", "cave")
	st.AddScene(root)
	st.AddScene(story.NewScene("cave", "It is dark."))
	return st
}

// storeUnderTest lets the file and memory backends share one suite.
// Redis and Mongo implement the same interface but need live backends,
// so they are exercised against real deployments, not here.
func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec, err := NewRecord("my-story", "My Story", sampleStory(t))
			if err != nil {
				t.Fatalf("NewRecord: %v", err)
			}

			if err := s.Save(ctx, rec); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := s.Load(ctx, "my-story")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Title != "My Story" {
				t.Errorf("Title = %q, want %q", got.Title, "My Story")
			}
			if got.ID == "" {
				t.Error("record should carry an ID")
			}

			st, err := got.Story(nil)
			if err != nil {
				t.Fatalf("Story: %v", err)
			}
			if st.Len() != 2 || st.Root().Key() != "intro" {
				t.Error("story payload should round-trip through the store")
			}
		})
	}
}

func TestStoreLoadMissing(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Load(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load(missing) = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreUpsertKeepsIdentity(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec, _ := NewRecord("my-story", "First", sampleStory(t))
			if err := s.Save(ctx, rec); err != nil {
				t.Fatalf("Save: %v", err)
			}
			firstID := rec.ID
			created := rec.CreatedAt

			time.Sleep(5 * time.Millisecond)

			update, _ := NewRecord("my-story", "Second", sampleStory(t))
			if err := s.Save(ctx, update); err != nil {
				t.Fatalf("Save update: %v", err)
			}

			got, err := s.Load(ctx, "my-story")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.ID != firstID {
				t.Error("upsert should keep the original ID")
			}
			if !got.CreatedAt.Equal(created) {
				t.Error("upsert should keep CreatedAt")
			}
			if !got.UpdatedAt.After(created) {
				t.Error("upsert should refresh UpdatedAt")
			}
			if got.Title != "Second" {
				t.Errorf("Title = %q, want updated title", got.Title)
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec, _ := NewRecord("doomed", "Doomed", sampleStory(t))
			if err := s.Save(ctx, rec); err != nil {
				t.Fatalf("Save: %v", err)
			}

			if err := s.Delete(ctx, "doomed"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Load(ctx, "doomed"); !errors.Is(err, ErrNotFound) {
				t.Error("record should be gone after Delete")
			}
			if err := s.Delete(ctx, "doomed"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreList(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, slug := range []string{"older", "newer"} {
				rec, _ := NewRecord(slug, slug, sampleStory(t))
				if err := s.Save(ctx, rec); err != nil {
					t.Fatalf("Save(%s): %v", slug, err)
				}
				time.Sleep(5 * time.Millisecond)
			}

			infos, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(infos) != 2 {
				t.Fatalf("List returned %d entries, want 2", len(infos))
			}
			if infos[0].Slug != "newer" {
				t.Errorf("most recently updated should sort first, got %q", infos[0].Slug)
			}
			if !infos[0].UpdatedAt.After(infos[1].UpdatedAt) {
				t.Error("listing should be ordered by UpdatedAt descending")
			}
		})
	}
}

func TestNewRecordRejectsBadSlug(t *testing.T) {
	if _, err := NewRecord("Bad Slug!", "t", sampleStory(t)); err == nil {
		t.Fatal("expected slug validation error")
	}
}
