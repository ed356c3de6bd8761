package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// errorResponse is the envelope every failure is rendered with.
type errorResponse struct {
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

var noStaticResource = regexp.MustCompile(`(?i)no static resource`)

// clientMessage hides framework wording for missing routes.
func clientMessage(msg string) string {
	if noStaticResource.MatchString(msg) {
		return "Resource not found"
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		Message: clientMessage(message),
		Status:  status,
	})
}

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, "Resource not found"),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, domain.ErrInvalidInput.Error()),
		sentinelHandler(domain.ErrTagSearchUnsupported, http.StatusBadRequest, domain.ErrTagSearchUnsupported.Error()),
		sentinelHandler(domain.ErrTagProviderError, http.StatusBadGateway, domain.ErrTagProviderError.Error()),
		sentinelHandler(domain.ErrTagQuotaExceeded, http.StatusTooManyRequests, domain.ErrTagQuotaExceeded.Error()),
		sentinelHandler(domain.ErrAttachmentsDisabled, http.StatusUnsupportedMediaType, domain.ErrAttachmentsDisabled.Error()),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, message)
		return true
	}
}

// validationHandler renders per-field details.
func validationHandler(w http.ResponseWriter, err error) bool {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Message: verr.Error(),
		Status:  http.StatusBadRequest,
		Fields:  verr.Fields,
	})
	return true
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
