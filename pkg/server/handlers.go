package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/polisher/pkg/buildinfo"
	"github.com/matzehuels/polisher/pkg/cache"
	"github.com/matzehuels/polisher/pkg/errors"
	"github.com/matzehuels/polisher/pkg/observability"
	"github.com/matzehuels/polisher/pkg/quality"
	"github.com/matzehuels/polisher/pkg/reportstore"
)

// brandSummary is the list form of a theme.
type brandSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Primary     string `json:"primary"`
	Accent      string `json:"accent"`
}

type validateResponse struct {
	RunID  string          `json:"run_id"`
	Report *quality.Report `json:"report"`
}

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	var out []brandSummary
	for _, g := range s.runner.Registry.ByCategory() {
		for _, t := range g.Themes {
			out = append(out, brandSummary{
				ID:          t.ID,
				Name:        t.Name,
				Category:    t.Category,
				Description: t.Description,
				Primary:     t.Colors.Primary,
				Accent:      t.Colors.Accent,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBrand(w http.ResponseWriter, r *http.Request) {
	theme, err := s.runner.Registry.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.runner.Registry.Has(id) {
		s.writeError(w, r, errors.UnknownBrand(id, s.runner.Registry.IDs()))
		return
	}
	src, ok := s.readBody(w, r)
	if !ok {
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	res, err := s.runner.Run(r.Context(), src, id, refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := reportstore.NewRecord(res.RunID, res.Brand, cache.Hash(src), res.Report)
	rec.Source = r.URL.Query().Get("name")
	rec.CacheHit = res.CacheHit
	rec.Duration = res.Stats.Total
	s.save(r, rec)

	h := w.Header()
	h.Set("Content-Type", docxContentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Brand + ".docx"}))
	h.Set("X-Run-ID", res.RunID)
	h.Set("X-Report-ID", res.Report.ID())
	h.Set("X-Quality-Level", res.Report.Level().String())
	if res.CacheHit {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	src, ok := s.readBody(w, r)
	if !ok {
		return
	}
	start := time.Now()
	rep, _, err := s.runner.Validate(r.Context(), src)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	runID := uuid.NewString()
	rec := reportstore.NewRecord(runID, "", cache.Hash(src), rep)
	rec.Source = r.URL.Query().Get("name")
	rec.Duration = time.Since(start)
	s.save(r, rec)

	writeJSON(w, http.StatusOK, validateResponse{RunID: runID, Report: rep})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*reportstore.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, reportstore.ErrNotFound) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "run %q not found", id))
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// readBody reads the uploaded document, answering 413 when it exceeds the
// upload limit and 400 when it is empty.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUpload))
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Code:  errors.ErrCodeInvalidInput,
			Error: "document exceeds upload limit of " + strconv.FormatInt(s.maxUpload, 10) + " bytes",
		})
		return nil, false
	case err != nil:
		s.writeError(w, r, errors.SourceRead(err, "read request body"))
		return nil, false
	case len(data) == 0:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request body is empty"))
		return nil, false
	}
	return data, true
}

// save stores rec; a store failure is logged and does not fail the request.
func (s *Server) save(r *http.Request, rec *reportstore.Record) {
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Warn("save run record", "run", rec.ID, "error", err)
	}
}

// statusFor maps an error code onto an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeUnknownBrand, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeConfiguration:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeSourceRead, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
