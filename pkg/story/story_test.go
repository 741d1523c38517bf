package story

import (
	"slices"
	"testing"
)

// buildChain creates a story with scenes linked A -> B -> C ... through
// explicit choice edges, adding them in the given order.
func buildChain(t *testing.T, keys ...string) *Story {
	t.Helper()
	st := New(nil)
	for i, key := range keys {
		sc := NewScene(key, "scene "+key)
		if i > 0 {
			prev, _ := st.Scene(keys[i-1])
			prev.AddChoice("to "+key, key)
		}
		if !st.AddScene(sc) {
			t.Fatalf("AddScene(%q) failed", key)
		}
	}
	return st
}

func visitKeys(visits []Visit) []string {
	keys := make([]string, len(visits))
	for i, v := range visits {
		keys[i] = v.Key
	}
	return keys
}

func TestAddSceneFirstBecomesRoot(t *testing.T) {
	st := New(nil)
	intro := NewScene("intro", "You wake up.")

	if !st.AddScene(intro) {
		t.Fatal("AddScene failed on empty story")
	}
	if st.Root() != intro {
		t.Error("first scene should become root")
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d, want 1", st.Len())
	}
	if intro.Parent() != nil {
		t.Error("root must have no parent")
	}
}

func TestAddSceneDuplicateKey(t *testing.T) {
	st := New(nil)
	st.AddScene(NewScene("intro", "one"))

	if st.AddScene(NewScene("intro", "two")) {
		t.Fatal("AddScene should fail on duplicate key")
	}
	sc, _ := st.Scene("intro")
	if sc.Text() != "one" {
		t.Error("duplicate AddScene must not overwrite")
	}
}

func TestAddSceneLinksThroughRoot(t *testing.T) {
	st := New(nil)
	root := NewScene("intro", "You wake up.")
	st.AddScene(root)

	cave := NewScene("cave", "A dark cave.")
	st.AddScene(cave)

	if _, ok := root.ChoiceLabel("cave"); !ok {
		t.Fatal("root should gain a choice to an unreferenced new scene")
	}
	if cave.Parent() != root {
		t.Error("new scene's parent should be root")
	}
}

func TestAddSceneAdoptsReferencingParent(t *testing.T) {
	st := New(nil)
	root := NewScene("intro", "You wake up.")
	st.AddScene(root)

	cave := NewScene("cave", "A dark cave.")
	cave.AddChoice("Go down", "tunnel") // dangling until tunnel arrives
	st.AddScene(cave)

	tunnel := NewScene("tunnel", "A narrow tunnel.")
	st.AddScene(tunnel)

	if tunnel.Parent() != cave {
		t.Error("scene should adopt the scene already referencing it")
	}
	if _, ok := root.ChoiceLabel("tunnel"); ok {
		t.Error("root should not gain a choice when a referencing parent exists")
	}
}

func TestAddScenePresetParent(t *testing.T) {
	st := New(nil)
	root := NewScene("intro", "You wake up.")
	st.AddScene(root)
	cave := NewScene("cave", "A dark cave.")
	st.AddScene(cave)

	sc := NewScene("pool", "An underground pool.")
	sc.parent = cave
	st.AddScene(sc)

	if _, ok := cave.ChoiceLabel("pool"); !ok {
		t.Error("preset parent present in the story should gain a forward edge")
	}
	if sc.Parent() != cave {
		t.Error("preset parent should be kept")
	}
}

func TestFindParent(t *testing.T) {
	st := buildChain(t, "a", "b", "c")

	// Two scenes referencing the same key: insertion order wins.
	c, _ := st.Scene("c")
	c.AddChoice("loop", "b")

	p := st.FindParent("b")
	if p == nil || p.Key() != "a" {
		t.Errorf("FindParent = %v, want first referrer in insertion order (a)", p)
	}
	if st.FindParent("nowhere") != nil {
		t.Error("FindParent should return nil for an unreferenced key")
	}
}

func TestSceneDepth(t *testing.T) {
	st := buildChain(t, "root", "a", "b", "c")

	wants := map[string]int{"root": 0, "a": 1, "b": 2, "c": 3}
	for key, want := range wants {
		sc, _ := st.Scene(key)
		if got := st.SceneDepth(sc); got != want {
			t.Errorf("SceneDepth(%s) = %d, want %d", key, got, want)
		}
	}

	if got := st.SceneDepth(NewScene("stray", "")); got != -1 {
		t.Errorf("SceneDepth(absent) = %d, want -1", got)
	}
	if got := st.SceneDepth(nil); got != -1 {
		t.Errorf("SceneDepth(nil) = %d, want -1", got)
	}
}

func TestScenesDFS(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *Story
		want  []string
	}{
		{
			name:  "Chain",
			build: func(t *testing.T) *Story { return buildChain(t, "a", "b", "c") },
			want:  []string{"a", "b", "c"},
		},
		{
			name: "BackEdgeVisitedOnce",
			build: func(t *testing.T) *Story {
				st := buildChain(t, "a", "b", "c")
				c, _ := st.Scene("c")
				c.AddChoice("back to start", "a")
				return st
			},
			want: []string{"a", "b", "c"},
		},
		{
			name: "Branching",
			build: func(t *testing.T) *Story {
				st := New(nil)
				root := NewScene("root", "r")
				root.AddChoice("l", "left")
				root.AddChoice("r", "right")
				st.AddScene(root)
				st.AddScene(NewScene("left", "l"))
				st.AddScene(NewScene("right", "r"))
				left, _ := st.Scene("left")
				left.AddChoice("d", "deep")
				st.AddScene(NewScene("deep", "d"))
				return st
			},
			want: []string{"root", "left", "deep", "right"},
		},
		{
			name: "DanglingTargetsDropped",
			build: func(t *testing.T) *Story {
				st := buildChain(t, "a", "b")
				b, _ := st.Scene("b")
				b.AddChoice("nowhere", "ghost")
				return st
			},
			want: []string{"a", "b"},
		},
		{
			name:  "Empty",
			build: func(t *testing.T) *Story { return New(nil) },
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.build(t)
			got := visitKeys(st.ScenesDFS(nil))
			if !slices.Equal(got, tt.want) {
				t.Errorf("ScenesDFS = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScenesDFSDepths(t *testing.T) {
	st := buildChain(t, "a", "b", "c")

	for i, v := range st.ScenesDFS(nil) {
		if v.Depth != i {
			t.Errorf("depth of %s = %d, want %d", v.Key, v.Depth, i)
		}
	}

	// Starting mid-chain seeds the walk with the scene's real depth.
	b, _ := st.Scene("b")
	visits := st.ScenesDFS(b)
	if len(visits) != 2 || visits[0].Depth != 1 || visits[1].Depth != 2 {
		t.Errorf("mid-chain DFS = %v, want b@1 c@2", visits)
	}
}

func TestHasCircle(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *Story
		want  bool
	}{
		{
			name: "TriangleCycle",
			build: func(t *testing.T) *Story {
				st := buildChain(t, "a", "b", "c")
				c, _ := st.Scene("c")
				c.AddChoice("back", "a")
				return st
			},
			want: true,
		},
		{
			name: "TwoNodeCycle",
			build: func(t *testing.T) *Story {
				st := buildChain(t, "a", "b")
				b, _ := st.Scene("b")
				b.AddChoice("back", "a")
				return st
			},
			want: true,
		},
		{
			name:  "Chain",
			build: func(t *testing.T) *Story { return buildChain(t, "a", "b", "c") },
			want:  false,
		},
		{
			name:  "Empty",
			build: func(t *testing.T) *Story { return New(nil) },
			want:  false,
		},
		{
			name: "SingleScene",
			build: func(t *testing.T) *Story {
				st := New(nil)
				st.AddScene(NewScene("only", "alone"))
				return st
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build(t).HasCircle(); got != tt.want {
				t.Errorf("HasCircle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEditScene(t *testing.T) {
	st := buildChain(t, "a", "b")
	b, _ := st.Scene("b")
	b.AddChoice("x", "c1")
	same := []Choice{{Label: "x", Target: "c1"}}

	if st.EditScene("b", "fresh text", same) != true {
		t.Error("changed text with equal choices should report true")
	}
	if st.EditScene("b", "fresh text", same) {
		t.Error("unchanged text and equal choices should report false")
	}
	if st.EditScene("ghost", "text", nil) {
		t.Error("EditScene should fail for an unknown key")
	}
}

func TestChangeSceneParent(t *testing.T) {
	st := New(nil)
	root := NewScene("root", "r")
	st.AddScene(root)
	x := NewScene("x", "old parent")
	st.AddScene(x)
	a := NewScene("a", "new parent")
	st.AddScene(a)

	// Hang b under x with a named edge.
	x.AddChoice("descend", "b")
	b := NewScene("b", "the child")
	st.AddScene(b)
	if b.Parent() != x {
		t.Fatalf("setup: b's parent = %v, want x", b.Parent())
	}

	if !st.ChangeSceneParent("b", "a") {
		t.Fatal("ChangeSceneParent should succeed")
	}
	if _, ok := x.ChoiceLabel("b"); ok {
		t.Error("old parent should lose its choice edge")
	}
	if label, ok := a.ChoiceLabel("b"); !ok || label != "descend" {
		t.Errorf("new parent's edge label = %q, want original label preserved", label)
	}
	if b.Parent() != a {
		t.Error("parent back-reference should point at the new parent")
	}
}

func TestChangeSceneParentUnknownTarget(t *testing.T) {
	st := buildChain(t, "root", "b")
	b, _ := st.Scene("b")

	if st.ChangeSceneParent("b", "ghost") {
		t.Fatal("ChangeSceneParent should fail for an unknown new parent")
	}
	if b.Parent() != nil {
		t.Error("scene should be left detached")
	}
	root, _ := st.Scene("root")
	if _, ok := root.ChoiceLabel("b"); ok {
		t.Error("old edge should still be removed")
	}
}

func TestChangeSceneParentDetachedScene(t *testing.T) {
	st := New(nil)
	st.AddScene(NewScene("root", "r"))

	if st.ChangeSceneParent("root", "root") {
		t.Error("reparenting a parentless scene is a guarded no-op")
	}
}

func TestRemoveSceneCascade(t *testing.T) {
	st := buildChain(t, "root", "a", "b")

	if !st.RemoveScene("root") {
		t.Fatal("RemoveScene(root) should succeed")
	}
	if st.Len() != 0 {
		t.Errorf("Len = %d, want 0 after cascading delete", st.Len())
	}
	if st.Root() != nil {
		t.Error("root pointer should be cleared with the root scene")
	}
}

func TestRemoveSceneSubtree(t *testing.T) {
	st := buildChain(t, "root", "a", "b")
	root, _ := st.Scene("root")

	if !st.RemoveScene("a") {
		t.Fatal("RemoveScene(a) should succeed")
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d, want only root to survive", st.Len())
	}
	if _, ok := root.ChoiceLabel("a"); ok {
		t.Error("parent's choice edge to the removed scene should be gone")
	}
}

func TestRemoveSceneAbsent(t *testing.T) {
	st := buildChain(t, "root", "a")

	if st.RemoveScene("ghost") {
		t.Fatal("RemoveScene should fail for an unknown key")
	}
	if st.Len() != 2 {
		t.Error("failed removal must not mutate the story")
	}
}

func TestRemoveSceneWithCycle(t *testing.T) {
	st := buildChain(t, "a", "b", "c")
	c, _ := st.Scene("c")
	c.AddChoice("back", "a")

	// The cascade must terminate even though the subtree loops back.
	if !st.RemoveScene("b") {
		t.Fatal("RemoveScene should succeed on cyclic reachable sets")
	}
	if st.Len() != 0 {
		t.Errorf("Len = %d, want 0 (a is reachable from b via c)", st.Len())
	}
}

func TestKeysInsertionOrder(t *testing.T) {
	st := buildChain(t, "c", "a", "b")
	want := []string{"c", "a", "b"}
	if !slices.Equal(st.Keys(), want) {
		t.Errorf("Keys = %v, want insertion order %v", st.Keys(), want)
	}
}
