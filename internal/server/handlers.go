package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/fetchora/fetchora/internal/export"
	"github.com/fetchora/fetchora/internal/models"
	"github.com/fetchora/fetchora/internal/pipeline"
)

type fetchRequest struct {
	APIKey         string `json:"api_key"`
	VideoURL       string `json:"video_url"`
	Format         string `json:"format"`
	IncludeReplies bool   `json:"include_replies"`
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.APIKey) == "" {
		writeErr(w, "api_key is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.VideoURL) == "" {
		writeErr(w, "video_url is required", http.StatusBadRequest)
		return
	}

	format := req.Format
	if format == "" {
		format = "csv"
	}
	kind, err := export.ParseKind(format)
	if err != nil {
		status, msg := statusForErr(err)
		writeErr(w, msg, status)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.fetchTimeout)
	defer cancel()

	file, err := s.pipeline.Run(ctx, pipeline.Request{
		VideoURL:       req.VideoURL,
		APIKey:         req.APIKey,
		Format:         kind,
		IncludeReplies: req.IncludeReplies,
	})
	if err != nil {
		status, msg := statusForErr(err)
		slog.Warn("[Server] Fetch failed",
			slog.Int("status", status),
			slog.String("error", err.Error()))
		writeErr(w, msg, status)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Write(file.Data)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, `{"status":"ok"}`)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, pipeline.FormatMetrics())
}

// statusForErr maps the error taxonomy onto HTTP statuses. Upstream failures
// surface as 502 with the upstream reason preserved in the message; anything
// untyped collapses to a generic 500 so internals never leak.
func statusForErr(err error) (int, string) {
	var invalidErr *models.InvalidInputError
	var formatErr *models.UnsupportedFormatError
	var emptyErr *models.EmptyInputError
	var apiErr *models.ExternalAPIError

	switch {
	case errors.As(err, &invalidErr):
		return http.StatusBadRequest, invalidErr.Error()
	case errors.As(err, &formatErr):
		return http.StatusBadRequest, formatErr.Error()
	case errors.As(err, &emptyErr):
		return http.StatusUnprocessableEntity, emptyErr.Error()
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, apiErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream fetch timed out"
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeErr(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(struct {
		Status int    `json:"status"`
		Error  string `json:"error"`
	}{
		Status: status,
		Error:  msg,
	})
}
