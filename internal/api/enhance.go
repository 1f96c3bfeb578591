package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pipedesk/assist/internal/enhance"
	"github.com/pipedesk/assist/internal/log"
)

// maxEnhanceBodySize caps enhancement request bodies at 4 MiB. Responses
// carry full assistant output plus raw tool payloads, so the limit is
// looser than for tool execution.
const maxEnhanceBodySize = 4 << 20

// enhanceHandler parses finished assistant responses into UI enhancements.
type enhanceHandler struct {
	logger log.Logger
}

// enhanceRequest is the body of POST /api/v1/enhance.
type enhanceRequest struct {
	Response  string             `json:"response"`
	ToolCalls []enhance.ToolCall `json:"tool_calls"`
}

func (h *enhanceHandler) enhanceResponse(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	body := http.MaxBytesReader(w, r.Body, maxEnhanceBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large", h.logger)
			return
		}
		WriteError(w, http.StatusBadRequest, "invalid_body", "invalid request body", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, enhance.Parse(req.Response, req.ToolCalls))
}
