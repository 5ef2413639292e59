package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

// Envelope is the uniform response shape: success responses carry data,
// failures carry a human-readable message.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

func (h *BaseHandler) writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess writes a success envelope with data
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	h.writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

// WriteSuccessMessage writes a success envelope with only a message
func (h *BaseHandler) WriteSuccessMessage(w http.ResponseWriter, status int, message string) {
	h.writeEnvelope(w, status, Envelope{Success: true, Message: message})
}

// WriteError writes a failure envelope
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Warn("http error", "status", status, "message", message)
	h.writeEnvelope(w, status, Envelope{Success: false, Message: message})
}

// HandleServiceError translates service errors to the failure envelope.
// AppErrors keep their status and message; anything else becomes a generic
// internal error so store failures never leak detail to the caller.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("internal error", "error", appErr.Error())
			h.writeEnvelope(w, appErr.StatusCode, Envelope{Success: false, Message: "internal server error"})
			return
		}
		h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
		return
	}

	h.Logger.Error("unhandled service error", "error", err)
	h.writeEnvelope(w, http.StatusInternalServerError, Envelope{Success: false, Message: "internal server error"})
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
