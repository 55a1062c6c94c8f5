// Package server exposes the parser and store over HTTP: upload a statement
// PDF, browse stored statements, list known accounts.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"fjacquet/hkstmt/internal/logging"
	"fjacquet/hkstmt/internal/models"
	"fjacquet/hkstmt/internal/pdfextract"
	"fjacquet/hkstmt/internal/statement"
	"fjacquet/hkstmt/internal/store"
)

// maxUploadBytes caps statement uploads; real statements are well under 1 MiB.
const maxUploadBytes = 20 << 20

// Server wires the HTTP handlers to the parsing engine and the store.
type Server struct {
	engine    *statement.Engine
	extractor pdfextract.Extractor
	store     *store.Store
	token     string
	log       logging.Logger
}

// New creates a Server. An empty token disables authentication.
func New(engine *statement.Engine, extractor pdfextract.Extractor, st *store.Store, token string, log logging.Logger) *Server {
	return &Server{
		engine:    engine,
		extractor: extractor,
		store:     st,
		token:     token,
		log:       log,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/statements", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/statements", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/statements/{id}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/accounts", s.handleAccounts).Methods(http.MethodGet)
	return r
}

// authMiddleware enforces bearer-token auth when a token is configured.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+s.token {
				writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// handleUpload accepts a multipart PDF upload, parses it and stores the
// resulting record. A statement already in the store is rejected with 409.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing form file 'file'")
		return
	}
	defer func() { _ = file.Close() }()

	tmp, err := os.CreateTemp("", "hkstmt-upload-*.pdf")
	if err != nil {
		s.log.WithError(err).Error("failed to create temp file")
		writeError(w, http.StatusInternalServerError, "failed to buffer upload")
		return
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		s.log.WithError(err).Error("failed to buffer upload")
		writeError(w, http.StatusInternalServerError, "failed to buffer upload")
		return
	}
	if err := tmp.Close(); err != nil {
		s.log.WithError(err).Error("failed to buffer upload")
		writeError(w, http.StatusInternalServerError, "failed to buffer upload")
		return
	}

	record, err := s.engine.ParseFile(tmpPath, s.extractor)
	if err != nil {
		s.log.WithError(err).Warn("statement rejected",
			logging.Field{Key: logging.FieldFile, Value: header.Filename})
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	entry, err := s.store.Save(record, filepath.Base(header.Filename))
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "statement already stored")
			return
		}
		s.log.WithError(err).Error("failed to store statement")
		writeError(w, http.StatusInternalServerError, "failed to store statement")
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Entry  store.Entry    `json:"entry"`
		Record *models.Record `json:"record"`
	}{Entry: entry, Record: record})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List()
	if err != nil {
		s.log.WithError(err).Error("failed to list statements")
		writeError(w, http.StatusInternalServerError, "failed to list statements")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	record, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "statement not found")
			return
		}
		s.log.WithError(err).Error("failed to load statement",
			logging.Field{Key: logging.FieldStatement, Value: id})
		writeError(w, http.StatusInternalServerError, "failed to load statement")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.Accounts()
	if err != nil {
		s.log.WithError(err).Error("failed to list accounts")
		writeError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": strings.TrimSpace(detail)})
}
