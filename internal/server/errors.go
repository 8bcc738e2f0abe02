package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/ntgraph/pkg/errors"
)

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error code to an HTTP status:
//
//	INVALID_INPUT, STRUCTURAL_INCONSISTENCY, LAYOUT_INCOMPLETE  422
//	UNSUPPORTED                                               400
//	SOLVER_FAILED                                             502
//	TIMEOUT                                                   504
//	anything else                                             500
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeStructural, errors.ErrCodeLayoutIncomplete:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeSolverFailed:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)

	id := requestIDFrom(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("layout request failed", "request_id", id, "code", code, "error", err)
	} else {
		s.logger.Warn("layout request rejected", "request_id", id, "code", code, "error", errors.UserMessage(err))
	}

	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: errors.UserMessage(err)},
		RequestID: id,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
