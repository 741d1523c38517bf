package errors

import (
	"strings"
	"testing"
)

func TestValidateSceneKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "cave", false},
		{"valid with dash", "dark-cave", false},
		{"valid with underscore", "dark_cave", false},
		{"valid with space", "dark cave", false},
		{"valid unicode", "höhle", false},

		{"empty", "", true},
		{"too long", strings.Repeat("k", 200), true},
		{"path traversal", "foo/../bar", true},
		{"slash", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSceneKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSceneKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidKey) {
				t.Errorf("error code = %q, want %q", GetCode(err), ErrCodeInvalidKey)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "mystory", false},
		{"valid with dash", "my-story", false},
		{"valid with digits", "story-2", false},

		{"empty", "", true},
		{"uppercase", "MyStory", true},
		{"leading dash", "-story", true},
		{"trailing dash", "story-", true},
		{"double dash", "my--story", true},
		{"space", "my story", true},
		{"too long", strings.Repeat("s", 80), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSlug(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"My Great Story", "my-great-story"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
		{"Dragons & Dungeons!", "dragons-dungeons"},
		{"already-a-slug", "already-a-slug"},
		{"???", "story"},
		{"", "story"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if err := ValidateSlug(got); err != nil {
				t.Errorf("Slugify output %q should validate: %v", got, err)
			}
		})
	}
}
