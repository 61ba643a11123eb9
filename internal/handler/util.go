package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/gencraft/chat-api/internal/middleware"
	"github.com/gencraft/chat-api/internal/model"
	"github.com/gencraft/chat-api/internal/service"
	"github.com/gencraft/chat-api/pkg/logger"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeMessage writes a JSON response with a message key.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &model.MessageResponse{Message: message})
}

// decodeJSON reads a size limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// writeServiceError maps a service error onto its HTTP status and body.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindInternal, Message: "internal server error", Err: err}
	}

	switch se.Kind {
	case service.KindNotFound, service.KindNoChatsFound:
		writeMessage(w, http.StatusNotFound, se.Message)
	case service.KindBadRequest:
		writeError(w, http.StatusBadRequest, se.Message)
	default:
		log.Error("request failed",
			zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
			zap.String("user_id", middleware.GetUserID(r.Context())),
			zap.String("session_id", middleware.GetSessionID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, se.Message)
	}
}
