package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Tomlord1122/task-tracker/internal/domain"
)

const (
	maxBodyBytes     = 1 << 20
	msgInternalError = "Internal server error"
)

var statusByKind = map[domain.Kind]int{
	domain.KindValidation:   http.StatusBadRequest,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindInvalidState: http.StatusBadRequest,
	domain.KindUnexpected:   http.StatusInternalServerError,
}

type errorResponse struct {
	Error   string         `json:"error"`
	Details []domain.Issue `json:"details,omitempty"`
}

// respondWithServiceError writes err using statusByKind. Unexpected errors are
// logged and never described to the client.
func (s *Server) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	var derr *domain.Error
	if status == http.StatusInternalServerError || !errors.As(err, &derr) {
		log.Printf("[%s] %s %s failed: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		respondWithJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternalError})
		return
	}

	respondWithJSON(w, status, errorResponse{Error: derr.Message, Details: derr.Issues})
}

// decodeJSONBody decodes the request body into dst. An empty body leaves dst
// untouched so that field validation reports what is missing. Anything after
// the first JSON value is rejected.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) *domain.Issue {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		if err = dec.Decode(&struct{}{}); errors.Is(err, io.EOF) {
			return nil
		}
		return &domain.Issue{Path: []string{"body"}, Message: "Request body must only contain a single JSON value"}
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	var msg string
	switch {
	case errors.As(err, &syntaxError):
		msg = fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		msg = "Request body contains badly-formed JSON"
	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field == "" {
			msg = "Request body must be a JSON object"
		} else {
			msg = fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		}
	case errors.As(err, &maxBytesError):
		msg = fmt.Sprintf("Request body must not be larger than %d bytes", maxBytesError.Limit)
	default:
		msg = strings.TrimPrefix(err.Error(), "json: ")
	}
	return &domain.Issue{Path: []string{"body"}, Message: msg}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
