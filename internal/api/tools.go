package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/pipedesk/assist/internal/log"
	"github.com/pipedesk/assist/internal/tools"
)

// maxExecuteBodySize caps tool execution request bodies at 1 MiB.
// Tool inputs are small structured objects; anything larger is abuse.
const maxExecuteBodySize = 1 << 20

// toolsHandler serves tool discovery and execution.
type toolsHandler struct {
	registry *tools.Registry
	logger   log.Logger
}

// executeRequest is the body of POST /api/v1/tools/{name}.
type executeRequest struct {
	ConversationID string         `json:"conversation_id"`
	UserID         string         `json:"user_id"`
	Input          map[string]any `json:"input"`
}

// listTools returns the definitions of every registered tool in
// registration order, ready to hand to a model as its tool manifest.
func (h *toolsHandler) listTools(w http.ResponseWriter, _ *http.Request) {
	defs := h.registry.Definitions()
	WriteJSON(w, http.StatusOK, map[string]any{
		"tools": defs,
		"count": len(defs),
	})
}

// executeTool runs one tool by name. Business-rule failures come back as
// 200 with a structured error Result; only unknown tools and infrastructure
// failures map to HTTP error codes.
func (h *toolsHandler) executeTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		WriteError(w, http.StatusBadRequest, "missing_tool", "tool name required", h.logger)
		return
	}

	var req executeRequest
	body := http.MaxBytesReader(w, r.Body, maxExecuteBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", h.logger)
			return
		}
		if !errors.Is(err, io.EOF) {
			WriteError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
			return
		}
	}
	if req.ConversationID == "" {
		WriteError(w, http.StatusBadRequest, "missing_conversation", "conversation_id is required", h.logger)
		return
	}

	call := tools.Call{
		ConversationID: req.ConversationID,
		AuthToken:      bearerToken(r),
		UserID:         req.UserID,
	}

	result, err := h.registry.Execute(r.Context(), name, req.Input, call)
	if err != nil {
		if errors.Is(err, tools.ErrToolNotFound) {
			WriteError(w, http.StatusNotFound, "tool_not_found", err.Error(), h.logger)
			return
		}
		h.logger.Error("tool execution failed", "tool", name, "error", err)
		WriteError(w, http.StatusInternalServerError, "execution_failed", "tool execution failed", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
// Returns empty string when the header is absent or malformed.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
