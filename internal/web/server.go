// Package web is the HTTP adapter for releasegated: the selection form,
// the JSON API behind it, and the daemon's metrics endpoint.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scx-platform/releasegate/internal/auth"
	"github.com/scx-platform/releasegate/internal/dispatch"
	"github.com/scx-platform/releasegate/internal/manifest"
	"github.com/scx-platform/releasegate/internal/session"
)

const sessionCookie = "releasegate_session"

// Dispatcher submits a built payload to the CI boundary.
type Dispatcher interface {
	Dispatch(ctx context.Context, r dispatch.Request) error
}

// Server wires the selection flow to HTTP. One Server handles many
// concurrent sessions; each session owns its own manifest snapshot.
type Server struct {
	loadManifest func(ctx context.Context) (*manifest.Manifest, error)
	dispatcher   Dispatcher
	ref          string
	sessions     *session.Store
	metrics      *Metrics
	log          *slog.Logger
}

// Options configures a Server.
type Options struct {
	// ManifestSource is an http(s) URL or local path, loaded once per session.
	ManifestSource string
	Dispatcher     Dispatcher
	Ref            string
	Token          string // bearer token required on /api/dispatch
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewHandler builds the Server and returns its router.
func NewHandler(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		loadManifest: func(ctx context.Context) (*manifest.Manifest, error) {
			return manifest.Load(ctx, opts.ManifestSource)
		},
		dispatcher: opts.Dispatcher,
		ref:        opts.Ref,
		sessions:   session.NewStore(opts.SessionTTL),
		metrics:    NewMetrics(),
		log:        log,
	}

	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Handle("/metrics", s.metrics.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Post("/session", s.handleNewSession)
		r.Get("/lobs", s.handleLobs)
		r.Get("/lobs/{key}/apps", s.handleApps)
		r.Post("/select", s.handleSelect)
		r.With(auth.Middleware(opts.Token)).Post("/dispatch", s.handleDispatch)
	})
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(formHTML))
}

// handleNewSession loads a fresh manifest snapshot and opens a session
// over it. A load failure is the blocking "cannot proceed" state.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	m, err := s.loadManifest(r.Context())
	if err != nil {
		s.metrics.ManifestLoads.WithLabelValues("error").Inc()
		s.log.Error("manifest load failed", "err", err)
		writeError(w, http.StatusBadGateway, "cannot load manifest: "+err.Error())
		return
	}
	s.metrics.ManifestLoads.WithLabelValues("ok").Inc()

	id := s.sessions.Put(session.New(m))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"lobs":       lobList(m),
	})
}

func (s *Server) handleLobs(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lobs": lobList(sess.Manifest())})
}

// handleApps returns the target apps for one LOB. An unknown key yields
// an empty list, mirroring the manifest accessor.
func (s *Server) handleApps(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	apps := sess.Manifest().TargetApps(key)
	writeJSON(w, http.StatusOK, map[string]any{"lob_key": key, "apps": apps})
}

type selectRequest struct {
	LobKey    string `json:"lob_key"`
	TargetApp string `json:"target_app"`
}

// handleSelect applies one or both selection transitions. Selecting a
// LOB always clears any previous target app choice.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}
	if req.LobKey != "" {
		if err := sess.SelectLob(req.LobKey); err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
	}
	if req.TargetApp != "" {
		if err := sess.SelectTargetApp(req.TargetApp); err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
	}
	snap := sess.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"state":      snap.State.String(),
		"lob_key":    snap.SelectedLob,
		"target_app": snap.SelectedTargetApp,
	})
}

type dispatchRequest struct {
	ProjectName        string `json:"project_name"`
	ReleaseType        string `json:"release_type"`
	ReleaseDescription string `json:"release_description"`
}

// handleDispatch re-validates the pair against the session's manifest
// snapshot and, when valid, submits the workflow dispatch. An invalid
// pairing answers 422 with the valid alternatives; the session stays
// open so the caller can correct and resubmit.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}
	if err := sess.SetMetadata(dispatch.Metadata{
		ProjectName: req.ProjectName,
		ReleaseType: req.ReleaseType,
		Description: req.ReleaseDescription,
	}); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	res, err := sess.Submit()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if !res.Valid {
		s.metrics.ValidationFailures.Inc()
		s.log.Info("invalid pairing rejected", "lob", res.LobKey, "app", res.TargetApp)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":        "invalid_pairing",
			"lob_key":      res.LobKey,
			"target_app":   res.TargetApp,
			"alternatives": res.Alternatives,
		})
		return
	}

	snap := sess.Snapshot()
	payload := dispatch.Build(s.ref, res.LobKey, res.TargetApp, snap.Metadata)
	if err := s.dispatcher.Dispatch(r.Context(), payload); err != nil {
		s.metrics.Dispatches.WithLabelValues("error").Inc()
		s.log.Error("dispatch failed", "lob", res.LobKey, "app", res.TargetApp, "err", err)
		// Keep the session usable: the pair stays selected so the
		// caller can resubmit once the CI endpoint recovers.
		sess.Fail()
		status := http.StatusBadGateway
		if !errors.Is(err, dispatch.ErrDispatch) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	s.metrics.Dispatches.WithLabelValues("ok").Inc()
	s.log.Info("release dispatched",
		"lob", res.LobKey, "lob_name", res.LobName, "app", res.TargetApp,
		"project", snap.Metadata.ProjectName, "email_dl", res.Aux.EmailDL)

	// Dispatch acknowledged: the session's flow is complete.
	sess.Finish()
	s.dropSession(w, r)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "dispatched",
		"lob_name": res.LobName,
		"email_dl": res.Aux.EmailDL,
	})
}

// session resolves the caller's session from the cookie. A missing or
// expired session answers 410 so the form knows to start over.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		writeError(w, http.StatusGone, "no session: POST /api/session first")
		return nil, false
	}
	sess := s.sessions.Get(c.Value)
	if sess == nil {
		writeError(w, http.StatusGone, "session expired: POST /api/session first")
		return nil, false
	}
	return sess, true
}

func (s *Server) dropSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Delete(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
}

type lobEntry struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

func lobList(m *manifest.Manifest) []lobEntry {
	keys := m.LobKeys()
	out := make([]lobEntry, len(keys))
	for i, k := range keys {
		out[i] = lobEntry{Key: k, Name: m.LobName(k)}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
