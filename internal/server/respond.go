package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm"
)

// maxBodyBytes bounds a JSON request body.
const maxBodyBytes = 1 << 20

// ProblemDetail represents RFC7807 problem details.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem sends an RFC7807 problem details response.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ProblemDetail{Title: title, Status: status, Detail: detail})
}

// DecodeJSON decodes a bounded JSON request body into target.
func DecodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return common.NewAppError(common.CodeValidation, "malformed JSON body: "+err.Error(), common.ErrValidation)
	}
	return nil
}

// RespondError maps pipeline errors to problem responses. Upstream failures
// carry the provider's own message as the detail.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidInput):
		Problem(w, http.StatusBadRequest, "Validation Failed", appMessage(err))
	case errors.Is(err, common.ErrNoText):
		Problem(w, http.StatusUnprocessableEntity, "No Text Detected", "the file contains no recognizable text")
	case errors.Is(err, common.ErrParse):
		Problem(w, http.StatusUnprocessableEntity, "Unparseable Reply", appMessage(err))
	case errors.Is(err, common.ErrUpstreamTimeout):
		Problem(w, http.StatusGatewayTimeout, "Upstream Timeout", upstreamDetail(err))
	case errors.Is(err, common.ErrUpstream):
		Problem(w, http.StatusBadGateway, "Upstream Failure", upstreamDetail(err))
	case errors.Is(err, common.ErrOCR):
		Problem(w, http.StatusBadGateway, "Text Detection Failed", appMessage(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func appMessage(err error) string {
	var aerr *common.AppError
	if errors.As(err, &aerr) {
		return aerr.Message
	}
	return err.Error()
}

func upstreamDetail(err error) string {
	var uerr *llm.UpstreamError
	if errors.As(err, &uerr) {
		return uerr.Detail()
	}
	return err.Error()
}
