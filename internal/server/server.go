// SPDX-License-Identifier: MIT
// Package server exposes the trainer over HTTP: a JSON API for the
// selection lists and harmonica layouts, and a WebSocket endpoint that
// turns raw audio buffers into live pitch readings.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"harp/internal/config"
	"harp/internal/harmonica"
	"harp/internal/log"
	"harp/internal/notes"
	"harp/pkg/build"
)

// Server wires the REST routes and the WebSocket endpoint onto one
// listener.
type Server struct {
	cfg      *config.Config
	handler  http.Handler
	http     *http.Server
	upgrader websocket.Upgrader
}

// New builds a server from the configuration. Nothing listens until
// ListenAndServe.
func New(cfg *config.Config) *Server {
	s := &Server{cfg: cfg}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	router := mux.NewRouter().StrictSlash(true)
	router.Use(requestLogging)
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tunings", s.handleTunings).Methods(http.MethodGet)
	api.HandleFunc("/keys", s.handleKeys).Methods(http.MethodGet)
	api.HandleFunc("/pitches", s.handlePitches).Methods(http.MethodGet)
	api.HandleFunc("/harmonica", s.handleHarmonica).Methods(http.MethodGet)
	api.HandleFunc("/harmonica/chords", s.handleChords).Methods(http.MethodGet)
	api.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.handleWebSocket)

	s.handler = cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(router)

	s.http = &http.Server{
		Addr:    cfg.Server.Address,
		Handler: s.handler,
	}
	return s
}

// Handler returns the root handler, CORS included. Tests mount it on an
// httptest server.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe blocks serving requests until Shutdown or a listener
// error.
func (s *Server) ListenAndServe() error {
	log.Infof("server: listening on %s", s.cfg.Server.Address)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains open connections and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Infof("server: shutting down")
	return s.http.Shutdown(ctx)
}

func (s *Server) handleTunings(w http.ResponseWriter, _ *http.Request) {
	tunes := harmonica.Tunes()
	names := make([]string, len(tunes))
	for i, t := range tunes {
		names[i] = t.String()
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleKeys(w http.ResponseWriter, _ *http.Request) {
	keys := harmonica.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handlePitches(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, notes.SupportedConcertPitches())
}

func (s *Server) handleHarmonica(w http.ResponseWriter, r *http.Request) {
	h, err := s.harmonicaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, buildLayout(h))
}

func (s *Server) handleChords(w http.ResponseWriter, r *http.Request) {
	h, err := s.harmonicaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, buildChords(h))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	f := build.GetBuildFlags()
	writeJSON(w, http.StatusOK, versionResponse{
		Name:    f.Name,
		Version: f.Version,
		Commit:  f.Commit,
		Time:    f.Time,
		UUID:    f.Uuid,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// harmonicaFromQuery builds the instrument a request asks for, falling
// back to the configured defaults for absent parameters. Key and tune
// parse leniently the way the instrument model does; a concert pitch
// has to be a plausible integer.
func (s *Server) harmonicaFromQuery(r *http.Request) (*harmonica.Harmonica, error) {
	q := r.URL.Query()

	keyName := q.Get("key")
	if keyName == "" {
		keyName = s.cfg.Harmonica.Key
	}
	tuneName := q.Get("tune")
	if tuneName == "" {
		tuneName = s.cfg.Harmonica.Tune
	}

	pitchHz := s.cfg.Harmonica.ConcertPitch
	if p := q.Get("pitch"); p != "" {
		hz, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid concert pitch %q", p)
		}
		if hz < config.MinConcertPitch || hz > config.MaxConcertPitch {
			return nil, fmt.Errorf("concert pitch %d outside %d-%d", hz, config.MinConcertPitch, config.MaxConcertPitch)
		}
		pitchHz = hz
	}

	table := notes.Default()
	if pitchHz != notes.DefaultConcertPitch {
		table = notes.New(pitchHz)
	}
	return harmonica.New(harmonica.ParseKey(keyName), harmonica.ParseTune(tuneName), table), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("server: writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
