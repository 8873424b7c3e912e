// Package web serves the receipt editor over HTTP.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/example/till/internal/adapters/render"
	"github.com/example/till/internal/core/receipt"
	"github.com/example/till/internal/ports/primary"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server exposes a ReceiptService as an HTML page and a JSON API.
type Server struct {
	service primary.ReceiptService
	logger  *zap.Logger
	router  *mux.Router
	page    *template.Template
}

// NewServer creates a server for service.
func NewServer(service primary.ReceiptService, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	s := &Server{service: service, logger: logger, router: mux.NewRouter(), page: page}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.logRequests)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/print.pdf", s.handlePDF).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/receipt", s.handleReceipt).Methods(http.MethodGet)
	api.HandleFunc("/items", s.handleAddItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{index:[0-9]+}", s.handleEditItem).Methods(http.MethodPatch)
	api.HandleFunc("/items/{index:[0-9]+}", s.handleRemoveItem).Methods(http.MethodDelete)
	api.HandleFunc("/header", s.handleHeader).Methods(http.MethodPut)
	api.HandleFunc("/randomize", s.handleRandomize).Methods(http.MethodPost)
	api.HandleFunc("/save", s.handleSave).Methods(http.MethodPost)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/history/{id}/restore", s.handleRestore).Methods(http.MethodPost)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Handlers

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Preview(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, view); err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to render page: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Preview(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := render.PDF(&buf, view); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=receipt.pdf")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Preview(r.Context())
	s.respond(w, view, err)
}

type itemBody struct {
	Name  *string `json:"name"`
	Price *string `json:"price"`
	Code  *string `json:"code"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var body itemBody
	if !s.decode(w, r, &body) {
		return
	}
	view, err := s.service.AddItem(r.Context(), primary.AddItemRequest{
		Name:  deref(body.Name),
		Price: deref(body.Price),
		Code:  deref(body.Code),
	})
	s.respond(w, view, err)
}

func (s *Server) handleEditItem(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}
	var body itemBody
	if !s.decode(w, r, &body) {
		return
	}
	view, err := s.service.EditItem(r.Context(), primary.EditItemRequest{
		Index: index,
		Name:  body.Name,
		Price: body.Price,
		Code:  body.Code,
	})
	s.respond(w, view, err)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := s.index(w, r)
	if !ok {
		return
	}
	view, err := s.service.RemoveItem(r.Context(), index)
	s.respond(w, view, err)
}

type headerBody struct {
	StoreName     *string `json:"store_name"`
	StoreLocation *string `json:"store_location"`
	StoreNumber   *string `json:"store_number"`
	Manager       *string `json:"manager"`
	Date          *string `json:"date"`
	Time          *string `json:"time"`
}

func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request) {
	var body headerBody
	if !s.decode(w, r, &body) {
		return
	}
	view, err := s.service.UpdateHeader(r.Context(), primary.UpdateHeaderRequest{
		StoreName:     body.StoreName,
		StoreLocation: body.StoreLocation,
		StoreNumber:   body.StoreNumber,
		Manager:       body.Manager,
		Date:          body.Date,
		Time:          body.Time,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRandomize(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Randomize(r.Context())
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.Save(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.ListHistory(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []*primary.HistoryEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.RestoreHistory(r.Context(), mux.Vars(r)["id"])
	s.respond(w, view, err)
}

// Helpers

func (s *Server) index(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid item index: %w", err))
		return 0, false
	}
	return index, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// respond writes view, or maps err to a status code.
func (s *Server) respond(w http.ResponseWriter, view *primary.ReceiptView, err error) {
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, view)
	case errors.Is(err, receipt.ErrIndexOutOfRange), errors.Is(err, primary.ErrHistoryNotFound):
		s.writeError(w, http.StatusNotFound, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
