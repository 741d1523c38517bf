package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	loomerrors "github.com/matzehuels/storyloom/pkg/errors"
	"github.com/matzehuels/storyloom/pkg/store"
	"github.com/matzehuels/storyloom/pkg/story"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string          `json:"error"`
	Code  loomerrors.Code `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: loomerrors.UserMessage(err),
		Code:  loomerrors.GetCode(err),
	})
}

// loadStory fetches the record for the slug in the URL and decodes its
// graph. On failure it writes the error response and returns ok=false.
func (s *Server) loadStory(w http.ResponseWriter, r *http.Request) (*store.Record, *story.Story, bool) {
	slug := chi.URLParam(r, "slug")
	rec, err := s.store.Load(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, loomerrors.New(loomerrors.ErrCodeStoryNotFound, "no story %q", slug))
		return nil, nil, false
	}
	if err != nil {
		s.logger.Error("load story", "slug", slug, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return nil, nil, false
	}
	st, err := rec.Story(s.logger)
	if err != nil {
		s.logger.Error("decode story", "slug", slug, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return nil, nil, false
	}
	return rec, st, true
}

// saveStory writes the mutated graph back into the record and store.
func (s *Server) saveStory(w http.ResponseWriter, r *http.Request, rec *store.Record, st *story.Story) bool {
	if err := rec.SetStory(st); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return false
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Error("save story", "slug", rec.Slug, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return false
	}
	return true
}

// GET /api/stories
func (s *Server) listStories(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

// POST /api/stories
func (s *Server) createStory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug     string `json:"slug"`
		Title    string `json:"title"`
		RootKey  string `json:"root_key"`
		RootText string `json:"root_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, loomerrors.Wrap(loomerrors.ErrCodeInvalidInput, err, "invalid JSON"))
		return
	}
	if req.Slug == "" {
		req.Slug = loomerrors.Slugify(req.Title)
	}
	if err := loomerrors.ValidateSceneKey(req.RootKey); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if _, err := s.store.Load(r.Context(), req.Slug); err == nil {
		writeError(w, http.StatusConflict, loomerrors.New(loomerrors.ErrCodeDuplicateKey, "story %q already exists", req.Slug))
		return
	}

	st := story.New(s.logger)
	st.AddScene(story.NewScene(req.RootKey, req.RootText))

	rec, err := store.NewRecord(req.Slug, req.Title, st)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// GET /api/stories/{slug}
func (s *Server) getStory(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := s.loadStory(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DELETE /api/stories/{slug}
func (s *Server) deleteStory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	err := s.store.Delete(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, loomerrors.New(loomerrors.ErrCodeStoryNotFound, "no story %q", slug))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/stories/{slug}/scenes
func (s *Server) addScene(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key    string `json:"key"`
		Text   string `json:"text"`
		Parent string `json:"parent"`
		Label  string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, loomerrors.Wrap(loomerrors.ErrCodeInvalidInput, err, "invalid JSON"))
		return
	}
	if err := loomerrors.ValidateSceneKey(req.Key); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, st, ok := s.loadStory(w, r)
	if !ok {
		return
	}

	// An explicit parent is expressed as a choice edge before insertion
	// so AddScene's parent discovery picks it up.
	if req.Parent != "" {
		parent, found := st.Scene(req.Parent)
		if !found {
			writeError(w, http.StatusNotFound, loomerrors.New(loomerrors.ErrCodeSceneNotFound, "no scene %q", req.Parent))
			return
		}
		label := req.Label
		if label == "" {
			label = "to " + req.Key
		}
		parent.AddChoice(label, req.Key)
	}

	if !st.AddScene(story.NewScene(req.Key, req.Text)) {
		writeError(w, http.StatusConflict, loomerrors.New(loomerrors.ErrCodeDuplicateKey, "scene %q already exists", req.Key))
		return
	}
	if !s.saveStory(w, r, rec, st) {
		return
	}
	writeJSON(w, http.StatusCreated, sceneView(st, req.Key))
}

// PATCH /api/stories/{slug}/scenes/{key}
func (s *Server) editScene(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text    string             `json:"text"`
		Choices []story.ChoiceData `json:"choices"`
		Clear   bool               `json:"clear_choices"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, loomerrors.Wrap(loomerrors.ErrCodeInvalidInput, err, "invalid JSON"))
		return
	}

	rec, st, ok := s.loadStory(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	if _, found := st.Scene(key); !found {
		writeError(w, http.StatusNotFound, loomerrors.New(loomerrors.ErrCodeSceneNotFound, "no scene %q", key))
		return
	}

	var choices []story.Choice
	switch {
	case req.Clear:
		choices = story.NoChoices
	case req.Choices != nil:
		for _, c := range req.Choices {
			choices = append(choices, story.Choice{Label: c.Text, Target: c.Next})
		}
	}

	changed := st.EditScene(key, req.Text, choices)
	if changed && !s.saveStory(w, r, rec, st) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": changed, "scene": sceneView(st, key)})
}

// DELETE /api/stories/{slug}/scenes/{key}
func (s *Server) removeScene(w http.ResponseWriter, r *http.Request) {
	rec, st, ok := s.loadStory(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	if !st.RemoveScene(key) {
		writeError(w, http.StatusNotFound, loomerrors.New(loomerrors.ErrCodeSceneNotFound, "no scene %q", key))
		return
	}
	if !s.saveStory(w, r, rec, st) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"remaining": st.Len()})
}

// PUT /api/stories/{slug}/scenes/{key}/parent
func (s *Server) reparentScene(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Parent string `json:"parent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, loomerrors.Wrap(loomerrors.ErrCodeInvalidInput, err, "invalid JSON"))
		return
	}

	rec, st, ok := s.loadStory(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	if !st.ChangeSceneParent(key, req.Parent) {
		writeError(w, http.StatusBadRequest, loomerrors.New(loomerrors.ErrCodeInvalidInput,
			"cannot reparent %q under %q", key, req.Parent))
		return
	}
	if !s.saveStory(w, r, rec, st) {
		return
	}
	writeJSON(w, http.StatusOK, sceneView(st, key))
}

// visitView is one DFS step in API responses.
type visitView struct {
	Key   string `json:"key"`
	Depth int    `json:"depth"`
	Text  string `json:"text"`
}

// GET /api/stories/{slug}/tree
func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	_, st, ok := s.loadStory(w, r)
	if !ok {
		return
	}
	visits := st.ScenesDFS(nil)
	views := make([]visitView, len(visits))
	for i, v := range visits {
		views[i] = visitView{Key: v.Key, Depth: v.Depth, Text: v.Scene.Text()}
	}
	writeJSON(w, http.StatusOK, views)
}

// GET /api/stories/{slug}/check
func (s *Server) checkCycles(w http.ResponseWriter, r *http.Request) {
	_, st, ok := s.loadStory(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"has_circle": st.HasCircle()})
}

// sceneView is the API shape of a single scene.
func sceneView(st *story.Story, key string) map[string]any {
	sc, ok := st.Scene(key)
	if !ok {
		return nil
	}
	view := map[string]any{
		"key":   sc.Key(),
		"text":  sc.Text(),
		"depth": st.SceneDepth(sc),
	}
	if p := sc.Parent(); p != nil {
		view["parent"] = p.Key()
	}
	if choices := sc.Choices(); len(choices) > 0 {
		data := make([]story.ChoiceData, len(choices))
		for i, c := range choices {
			data[i] = story.ChoiceData{Text: c.Label, Next: c.Target}
		}
		view["choices"] = data
	}
	return view
}
