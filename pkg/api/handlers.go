package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/shapegrid/pkg/buildinfo"
	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/pipeline"
	"github.com/matzehuels/shapegrid/pkg/project"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

// =============================================================================
// Request and response bodies
// =============================================================================

// ProjectRequest is the body of project create and update requests.
// Settings is a settings record in its strict JSON form. On update, an
// empty Name keeps the current name and absent Settings keep the current
// settings.
type ProjectRequest struct {
	Name     string          `json:"name"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// ProjectList is the body of the list response.
type ProjectList struct {
	Projects []*project.Project `json:"projects"`
}

// ShareResponse is the body of share creation.
type ShareResponse struct {
	Token string `json:"token"`
	URL   string `json:"url,omitempty"`
}

// Health is the body of /healthz.
type Health struct {
	Status string `json:"status"`
	buildinfo.Info
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	ps, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ps == nil {
		ps = []*project.Project{}
	}
	writeJSON(w, http.StatusOK, ProjectList{Projects: ps})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	st := settings.Default()
	if len(req.Settings) > 0 {
		var err error
		if st, err = settings.Parse(req.Settings, settings.FormatJSON, s.logger); err != nil {
			writeError(w, r, err)
			return
		}
	}
	p, err := project.New(req.Name, st)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	s.logger.Info("project created", "id", p.ID, "name", p.Name)
	w.Header().Set("Location", "/api/v1/projects/"+p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadProject(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadProject(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ProjectRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Name != "" {
		if err := errors.ValidateProjectName(req.Name); err != nil {
			writeError(w, r, err)
			return
		}
		p.Name = strings.TrimSpace(req.Name)
	}
	next := p.Settings
	if len(req.Settings) > 0 {
		if next, err = settings.Parse(req.Settings, settings.FormatJSON, s.logger); err != nil {
			writeError(w, r, err)
			return
		}
		// A replacement record without a seed keeps the stored one.
	}
	if err := p.Update(next); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateProjectID(id); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.logger.Info("project deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// contentTypes maps snapshot formats to response types.
var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadProject(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := chi.URLParam(r, "format")
	q := r.URL.Query()
	opts := pipeline.SnapshotOptions{
		Formats:    []string{format},
		Engine:     q.Get("engine"),
		Background: q.Get("background"),
		Refresh:    q.Get("refresh") == "true",
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 || scale > 8 {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scale must be a number in (0, 8], got %q", v))
			return
		}
		opts.Scale = scale
	}

	snap, err := s.snaps.Render(r.Context(), p.Settings, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cacheState := "miss"
	if len(snap.CacheHits) > 0 {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheState)
	w.Header().Set("ETag", strconv.Quote(snap.SettingsHash[:16]))
	_, _ = w.Write(snap.Artifacts[format])
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r.Body); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	st, err := settings.Parse(buf.Bytes(), settings.FormatJSON, s.logger)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Token and URL must carry the same seed.
	st.EnsureSeed(s.logger)
	token, err := project.EncodeShare(st)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := ShareResponse{Token: token}
	if s.publicURL != "" {
		if resp.URL, err = project.ShareURL(s.publicURL+"/", st); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetShare(w http.ResponseWriter, r *http.Request) {
	st, err := project.DecodeShare(chi.URLParam(r, "token"), s.logger)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) loadProject(r *http.Request) (*project.Project, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateProjectID(id); err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

// decodeBody strictly decodes a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return errors.Wrap(errors.ErrCodeUnknownField, err, "decode request")
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}
