package story

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// Story owns the scene collection, tracks the designated root, and
// performs the cross-scene bookkeeping that Scene cannot do on its own:
// parent discovery, choice-table updates, traversal, and cascade deletes.
//
// Scenes iterate in insertion order, which makes traversal and
// serialization deterministic. The zero value is not usable - use [New].
type Story struct {
	scenes map[string]*Scene
	order  []string
	root   *Scene
	logger *log.Logger
}

// Visit is one step of a depth-first traversal: the visited key, the
// resolved scene, and its depth relative to the root.
type Visit struct {
	Key   string
	Scene *Scene
	Depth int
}

// New creates an empty story. The logger receives a warning for every
// benign failure (duplicate key, unknown key, no-op edit); pass nil to
// discard them.
func New(logger *log.Logger) *Story {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Story{
		scenes: make(map[string]*Scene),
		logger: logger,
	}
}

// Root returns the designated traversal-start scene, or nil for an empty
// story. The first scene ever added becomes the root automatically.
func (st *Story) Root() *Scene { return st.root }

// Len returns the number of scenes.
func (st *Story) Len() int { return len(st.scenes) }

// Keys returns all scene keys in insertion order.
// The returned slice is a copy.
func (st *Story) Keys() []string { return slices.Clone(st.order) }

// Scene returns the scene with the given key and true, or nil and false
// if the key is not present.
func (st *Story) Scene(key string) (*Scene, bool) {
	sc, ok := st.scenes[key]
	return sc, ok
}

// AddScene inserts a scene into the story. Returns false if a scene with
// the same key already exists.
//
// The first scene added becomes the root and no linking runs. Every later
// scene is linked so it ends up reachable by at least one choice edge:
//
//   - If the scene arrives without a parent, the story scans for an
//     existing scene whose choices already reference the new key and
//     adopts it as parent; failing that, the root gains a choice to the
//     new key and becomes the parent.
//   - Independently, if the scene arrives carrying a parent that is
//     present in the story, that parent gains a choice to the new key
//     (or keeps the one it already has).
//
// Auto-created choice edges are labeled with the scene's narrative text,
// falling back to "to <key>" when the text is blank.
func (st *Story) AddScene(sc *Scene) bool {
	if sc == nil {
		st.logger.Warn("add scene: nil scene")
		return false
	}
	if _, exists := st.scenes[sc.key]; exists {
		st.logger.Warn("add scene: duplicate key", "key", sc.key)
		return false
	}

	st.scenes[sc.key] = sc
	st.order = append(st.order, sc.key)

	if st.root == nil {
		st.root = sc
		return true
	}

	if sc.parent == nil {
		if p := st.FindParent(sc.key); p != nil {
			sc.parent = p
		} else {
			st.root.AddChoice(defaultLabel(sc), sc.key)
			sc.parent = st.root
		}
	}

	// A pre-set parent that lives in this story always gets a forward
	// edge, even when the scan above already linked someone else.
	if sc.parent != nil {
		if p, ok := st.scenes[sc.parent.key]; ok {
			p.AddChoice(defaultLabel(sc), sc.key)
		}
	}

	return true
}

// FindParent scans all scenes for one whose choice table references key
// and returns the first match in insertion order, or nil. Ties are broken
// by insertion order, not graph distance.
func (st *Story) FindParent(key string) *Scene {
	for _, k := range st.order {
		if st.scenes[k].hasChoice(key) {
			return st.scenes[k]
		}
	}
	return nil
}

// SceneDepth walks parent links from sc to a scene with no parent and
// returns the number of steps. Returns -1 if sc is nil or its key is not
// present in the story.
//
// The walk trusts parent pointers: a corrupted parent cycle is not
// re-validated here and would not terminate. Stories maintained through
// this package's operations never produce one.
func (st *Story) SceneDepth(sc *Scene) int {
	if sc == nil {
		return -1
	}
	if _, ok := st.scenes[sc.key]; !ok {
		return -1
	}
	depth := 0
	for p := sc.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// ScenesDFS returns a depth-first enumeration of the scenes reachable
// from start. A nil start defaults to the root; an empty story returns
// nil.
//
// The walk is iterative with an explicit stack and visits each key at
// most once, so cycles and converging edges are safe. Children are
// resolved through their choice targets in order; targets that do not
// resolve to a scene are dropped without a placeholder. Depths are
// relative to the root: the stack is seeded with 0 when start is the
// root, otherwise with [Story.SceneDepth] of start.
func (st *Story) ScenesDFS(start *Scene) []Visit {
	if start == nil {
		start = st.root
	}
	if start == nil {
		return nil
	}

	base := 0
	if start != st.root {
		base = st.SceneDepth(start)
	}

	type frame struct {
		sc    *Scene
		depth int
	}
	stack := []frame{{start, base}}
	visited := make(map[string]bool, len(st.scenes))
	var visits []Visit

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[f.sc.key] {
			continue
		}
		visited[f.sc.key] = true
		visits = append(visits, Visit{Key: f.sc.key, Scene: f.sc, Depth: f.depth})

		// Push children in reverse so the stack pops them in the
		// original left-to-right choice order.
		choices := f.sc.choices
		for i := len(choices) - 1; i >= 0; i-- {
			if child, ok := st.scenes[choices[i].Target]; ok {
				stack = append(stack, frame{child, f.depth + 1})
			}
		}
	}

	return visits
}

// HasCircle reports whether the story reachable from the root contains a
// back-edge to an already-completed scene.
//
// The check walks the DFS emission order and, for each scene, tests
// whether any choice target resolves to a scene that was fully processed
// earlier in that order; the current scene joins the completed set only
// after its own edges were scanned. This is a linear post-order scan, not
// a recursion-stack cycle check, and can under-detect cycles confined to
// scenes not yet completed. Its literal behavior is part of the contract.
func (st *Story) HasCircle() bool {
	done := make(map[string]bool, len(st.scenes))
	for _, v := range st.ScenesDFS(st.root) {
		for _, c := range v.Scene.choices {
			if target, ok := st.scenes[c.Target]; ok && done[target.key] {
				return true
			}
		}
		done[v.Key] = true
	}
	return false
}

// EditScene applies [Scene.UpdateContent] to the scene with the given
// key and reports whether anything changed. Returns false if the key is
// not present.
func (st *Story) EditScene(key, newText string, choices []Choice) bool {
	sc, ok := st.scenes[key]
	if !ok {
		st.logger.Warn("edit scene: unknown key", "key", key)
		return false
	}
	changed := sc.UpdateContent(newText, choices)
	if !changed {
		st.logger.Warn("edit scene: no change", "key", key)
	}
	return changed
}

// ChangeSceneParent detaches the scene from its current parent and
// reattaches it under newParentKey, carrying the original edge label
// along (or "to <key>" when that label was blank).
//
// If newParentKey does not resolve, the scene is left detached with no
// parent and false is returned. Calling this on a scene that currently
// has no parent is a guarded no-op returning false.
func (st *Story) ChangeSceneParent(key, newParentKey string) bool {
	sc, ok := st.scenes[key]
	if !ok {
		st.logger.Warn("change parent: unknown key", "key", key)
		return false
	}
	if sc.parent == nil {
		st.logger.Warn("change parent: scene has no parent", "key", key)
		return false
	}

	label, _ := sc.parent.ChoiceLabel(key)
	sc.parent.RemoveChoice(key)

	parent, ok := st.scenes[newParentKey]
	if !ok {
		st.logger.Warn("change parent: unknown parent key", "key", key, "parent", newParentKey)
		sc.parent = nil
		return false
	}

	sc.parent = parent
	if label == "" {
		label = "to " + key
	}
	parent.AddChoice(label, key)
	return true
}

// RemoveScene deletes the scene with the given key together with every
// scene reachable from it. Returns false if the key is not present.
//
// The choice edge from the scene's parent (if any) is removed first, the
// reachable set is computed by DFS before any deletion, and the scenes
// are then deleted in reverse DFS-emission order so that, under normal
// tree shapes, children go before their parents. That ordering is a
// convention inherited from DFS, not a topological guarantee for graphs
// with shared references. Once the scene itself was found the call
// returns true.
func (st *Story) RemoveScene(key string) bool {
	sc, ok := st.scenes[key]
	if !ok {
		st.logger.Warn("remove scene: unknown key", "key", key)
		return false
	}

	if sc.parent != nil {
		sc.parent.RemoveChoice(key)
	}

	visits := st.ScenesDFS(sc)
	for i := len(visits) - 1; i >= 0; i-- {
		st.deleteScene(visits[i].Key)
	}
	return true
}

// deleteScene drops a single key from the collection and clears the root
// pointer when the root itself goes, so the next AddScene re-seeds it.
func (st *Story) deleteScene(key string) {
	delete(st.scenes, key)
	st.order = slices.DeleteFunc(st.order, func(k string) bool { return k == key })
	if st.root != nil && st.root.key == key {
		st.root = nil
	}
}

// defaultLabel derives the label for auto-created choice edges: the
// scene's own text, or "to <key>" when the text is blank.
func defaultLabel(sc *Scene) string {
	if strings.TrimSpace(sc.text) != "" {
		return sc.text
	}
	return "to " + sc.key
}
