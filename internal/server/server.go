// Package server exposes batch processing over HTTP. Progress is streamed back
// as plain text, one line per event.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"famedia/internal/app"
	"famedia/internal/config"
	"famedia/internal/domain"
	"famedia/internal/logging"
	"famedia/internal/metadata"
	"famedia/internal/presentation"
	"famedia/internal/presets"
)

type Server struct {
	Config   config.Config
	Pipeline *app.Pipeline
	FS       app.FileSystem
	Logger   logging.Logger

	// busy is held while a batch runs; a second batch is rejected.
	busy sync.Mutex
}

func New(cfg config.Config, pipeline *app.Pipeline, fsys app.FileSystem, logger logging.Logger) *Server {
	return &Server{Config: cfg, Pipeline: pipeline, FS: fsys, Logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("GET /directory-structure", s.handleDirectoryStructure)
	mux.HandleFunc("GET /geotag-data", s.handleGeotagData)
	mux.HandleFunc("POST /start-processing", s.handleStartJSON)
	mux.HandleFunc("POST /start-processing-form", s.handleStartForm)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Infof("Listening on %s", s.Config.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type infoResponse struct {
	AppName          string `json:"app_name"`
	MoveToDir        string `json:"move_to_dir"`
	MoveFilesEnabled bool   `json:"move_files_enabled"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		AppName:          s.Config.AppName,
		MoveToDir:        s.Config.ExternalMoveToDir,
		MoveFilesEnabled: s.Config.EnableMoveFiles,
	})
}

func (s *Server) handleDirectoryStructure(w http.ResponseWriter, r *http.Request) {
	tree := BuildTree(s.FS, s.Config.MediaMount(), s.Config.ExcludedDirs)
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleGeotagData(w http.ResponseWriter, r *http.Request) {
	catalog, err := presets.Load(s.Config.GeotagDataFile)
	if err != nil {
		s.Logger.Errorf("Loading geotag data from %s: %v", s.Config.GeotagDataFile, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": fmt.Sprintf("Error loading geotag data: %v", err),
		})
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

var (
	errNoDirectory = errors.New("no media directory selected")
	errNoGeotag    = errors.New("geotagging is enabled but no geotag data was sent")
)

// processRequest is the body of a start-processing call.
type processRequest struct {
	SelectedMediaDirectory string                `json:"selected_media_directory"`
	RecursiveSearch        bool                  `json:"recursive_search"`
	MoveFilesSelected      bool                  `json:"move_files_selected"`
	GeotagEnabled          bool                  `json:"geotag_enabled"`
	GeotagOverride         bool                  `json:"geotag_override"`
	GeotagData             *metadata.GeotagInput `json:"geotag_data"`
}

func (req processRequest) batch() (domain.Batch, error) {
	if req.SelectedMediaDirectory == "" {
		return domain.Batch{}, errNoDirectory
	}
	b := domain.Batch{
		SelectedDirectory: req.SelectedMediaDirectory,
		Recursive:         req.RecursiveSearch,
		MoveSelected:      req.MoveFilesSelected,
		GeotagEnabled:     req.GeotagEnabled,
	}
	if !req.GeotagEnabled {
		return b, nil
	}
	if req.GeotagData == nil {
		return domain.Batch{}, errNoGeotag
	}
	geo, err := metadata.ParseGeotagInput(*req.GeotagData, req.GeotagOverride)
	if err != nil {
		return domain.Batch{}, err
	}
	b.Geotag = &geo
	return b, nil
}

func (s *Server) handleStartJSON(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		badRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.start(w, r, req)
}

func (s *Server) handleStartForm(w http.ResponseWriter, r *http.Request) {
	req, err := s.formRequest(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	s.start(w, r, req)
}

func (s *Server) start(w http.ResponseWriter, r *http.Request, req processRequest) {
	batch, err := req.batch()
	if err != nil {
		badRequest(w, err)
		return
	}

	if !s.busy.TryLock() {
		http.Error(w, "Error: A batch is already running. Try again when it has finished.", http.StatusConflict)
		return
	}
	defer s.busy.Unlock()

	id := uuid.NewString()
	logger := s.Logger.With("batch " + id[:8])
	logger.Infof("Starting batch for %s (recursive=%t move=%t geotag=%t)", batch.SelectedDirectory, batch.Recursive, batch.MoveSelected, batch.Geotagging())

	pipeline := *s.Pipeline
	pipeline.Logger = logger

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Batch-Id", id)
	w.WriteHeader(http.StatusOK)

	printer := presentation.Printer{Writer: w}
	if f, ok := w.(http.Flusher); ok {
		printer.Flush = f.Flush
	}

	summary, err := printer.Stream(pipeline.Run(r.Context(), batch))
	if err != nil {
		logger.Warnf("Client went away: %v", err)
	}
	logger.Infof("Batch finished: %d processed, %d deleted, %d warnings, ended early: %t", summary.Processed, summary.Deleted, len(summary.Warnings), summary.Aborted)
}

func badRequest(w http.ResponseWriter, err error) {
	http.Error(w, "Error: "+err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
