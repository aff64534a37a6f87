package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/FocuswithJustin/quill/core/errors"
	"github.com/FocuswithJustin/quill/core/sql"
	"github.com/FocuswithJustin/quill/core/syn"
	"github.com/FocuswithJustin/quill/core/syn/parser"
	"github.com/FocuswithJustin/quill/internal/cache"
	"github.com/FocuswithJustin/quill/internal/logging"
	"github.com/FocuswithJustin/quill/internal/server"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Diagnostic *Diagnostic `json:"diagnostic,omitempty"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Diagnostic locates a parse failure in the submitted query.
type Diagnostic struct {
	Kind     string `json:"kind"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Offset   uint32 `json:"offset"`
	Length   uint32 `json:"length"`
	Rendered string `json:"rendered"`
}

// QueryRequest is the request body for /parse, /tokenize and /format.
type QueryRequest struct {
	Query string `json:"query"`
}

// ParseResult is the result of a successful parse.
type ParseResult struct {
	Statements []string `json:"statements"`
	Count      int      `json:"count"`
	Canonical  string   `json:"canonical"`
	Cached     bool     `json:"cached"`
}

// TokenizeResult lists the tokens of a query.
type TokenizeResult struct {
	Tokens []syn.Token `json:"tokens"`
	Count  int         `json:"count"`
}

// FormatResult is the canonical text of a query.
type FormatResult struct {
	Canonical string `json:"canonical"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Uptime  string      `json:"uptime"`
	Cache   cache.Stats `json:"cache"`
	Clients int         `json:"websocket_clients"`
}

// requestSource names queries that arrive over the API in diagnostics.
const requestSource = "<request>"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	respond(w, r, http.StatusOK, map[string]interface{}{
		"name":    "quill parse service",
		"version": s.cfg.Version,
		"endpoints": []string{
			"GET /health",
			"POST /parse",
			"POST /tokenize",
			"POST /format",
			"WS /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	respond(w, r, http.StatusOK, HealthInfo{
		Status:  "healthy",
		Version: s.cfg.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Cache:   s.cache.Stats(),
		Clients: s.hub.Count(),
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	src, ok := s.readQuery(w, r)
	if !ok {
		return
	}

	result, err := s.parse(src)
	if err != nil {
		logging.ParseFailure(r.Context(), requestSource, len(src), err)
		respondParseError(w, r, src, err)
		return
	}

	if result.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	respond(w, r, http.StatusOK, result)
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	src, ok := s.readQuery(w, r)
	if !ok {
		return
	}

	toks := syn.Tokenize(src)
	if toks == nil {
		toks = []syn.Token{}
	}
	respond(w, r, http.StatusOK, TokenizeResult{Tokens: toks, Count: len(toks)})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	src, ok := s.readQuery(w, r)
	if !ok {
		return
	}

	result, err := s.parse(src)
	if err != nil {
		logging.ParseFailure(r.Context(), requestSource, len(src), err)
		respondParseError(w, r, src, err)
		return
	}
	respond(w, r, http.StatusOK, FormatResult{Canonical: result.Canonical})
}

// parse runs src through the query cache.
func (s *Server) parse(src string) (*ParseResult, error) {
	q, cached, err := s.cache.Parse(src)
	if err != nil {
		return nil, err
	}
	return newParseResult(q, cached), nil
}

func newParseResult(q sql.Query, cached bool) *ParseResult {
	stmts := make([]string, len(q))
	for i, stmt := range q {
		stmts[i] = stmt.String()
	}
	return &ParseResult{
		Statements: stmts,
		Count:      len(q),
		Canonical:  q.String(),
		Cached:     cached,
	}
}

// readQuery reads the query from a POST body. JSON bodies carry it in the
// query field; text/plain bodies are the query itself. On failure the error
// response has been written and ok is false.
func (s *Server) readQuery(w http.ResponseWriter, r *http.Request) (src string, ok bool) {
	if r.Method != http.MethodPost {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return "", false
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	if !server.ValidateContentType(contentType, []string{"application/json", "text/plain"}) {
		respondError(w, r, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE",
			"Content-Type must be application/json or text/plain")
		return "", false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxQueryBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, "QUERY_TOO_LARGE", err.Error())
			return "", false
		}
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read request body")
		return "", false
	}

	if server.ValidateContentType(contentType, []string{"text/plain"}) {
		src = string(body)
	} else {
		var req QueryRequest
		if err := json.Unmarshal(body, &req); err != nil {
			respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body")
			return "", false
		}
		src = req.Query
	}

	if strings.TrimSpace(src) == "" {
		verr := apperrors.NewValidation("query", "must not be empty")
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", verr.Error())
		return "", false
	}
	return src, true
}

// parseAPIError builds the error payload for a failed parse of src.
func parseAPIError(src string, err error) *APIError {
	apiErr := &APIError{Code: "PARSE_ERROR", Message: err.Error()}
	if errors.Is(err, apperrors.ErrUnsupported) {
		apiErr.Code = "UNSUPPORTED"
	}

	var se *apperrors.SourceError
	var pe *parser.ParseError
	if errors.As(syn.Attribute(requestSource, src, err), &se) && errors.As(err, &pe) {
		apiErr.Diagnostic = &Diagnostic{
			Kind:     pe.Kind.String(),
			Line:     se.Line,
			Column:   se.Column,
			Offset:   pe.Span.Offset,
			Length:   pe.Span.Len,
			Rendered: se.Rendered,
		}
	}
	return apiErr
}

func respondParseError(w http.ResponseWriter, r *http.Request, src string, err error) {
	writeResponse(w, r, http.StatusUnprocessableEntity, APIResponse{
		Success: false,
		Error:   parseAPIError(src, err),
	})
}

func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeResponse(w, r, status, APIResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeResponse(w, r, status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	})
}

func writeResponse(w http.ResponseWriter, r *http.Request, status int, response APIResponse) {
	if response.Meta == nil {
		response.Meta = &APIMeta{}
	}
	response.Meta.Timestamp = time.Now().UTC().Format(time.RFC3339)
	response.Meta.RequestID = logging.GetRequestID(r.Context())
	if tr, ok := response.Data.(TokenizeResult); ok {
		response.Meta.Total = tr.Count
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}
