package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pipedesk/assist/internal/log"
	"github.com/pipedesk/assist/internal/tools"
)

// Error details crossing the MCP boundary are filtered through a whitelist.
// Safe fields are controlled values the UI renders (conflicting records,
// change summaries); anything that could leak internals (tokens, stack
// traces, connection strings) never passes through.

// resultToMCP converts a tools.Result to an mcp.CallToolResult.
// Business failures become error results with the code, message, and
// sanitized details; successes carry the full result rendered as JSON so
// clients see the message, data, warnings, and workflow steps.
func resultToMCP(result tools.Result, logger log.Logger) *mcp.CallToolResult {
	if result.Status == tools.StatusError && result.Error != nil {
		errorText := fmt.Sprintf("[%s] %s", result.Error.Code, result.Error.Message)
		if result.Error.Suggestion != "" {
			errorText += "\nSuggestion: " + result.Error.Suggestion
		}

		if sanitized := sanitizeErrorDetails(result.Error.Details); len(sanitized) > 0 {
			detailsJSON, err := json.Marshal(sanitized)
			if err != nil {
				logger.Warn("marshaling sanitized error details", "error", err)
				errorText += "\nDetails: (see server logs)"
			} else {
				errorText += "\nDetails: " + string(detailsJSON)
			}
		}

		// Full details stay server-side for debugging.
		logger.Debug("tool error details", "code", result.Error.Code, "details", result.Error.Details)

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: errorText}},
			IsError: true,
		}
	}

	b, err := json.Marshal(result)
	if err != nil {
		logger.Warn("marshaling tool result", "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "marshal error"}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// safeDetailFields is the whitelist of error detail keys allowed over MCP.
var safeDetailFields = map[string]bool{
	"existing_organization":    true,
	"existing_person":          true,
	"conflicting_organization": true,
	"conflicting_person":       true,
	"organization_id":          true,
	"changes_detected":         true,
	"error":                    true,
}

// sanitizeErrorDetails keeps only whitelisted detail fields.
func sanitizeErrorDetails(details map[string]any) map[string]any {
	safe := make(map[string]any)
	for key, val := range details {
		if safeDetailFields[key] {
			safe[key] = val
		}
	}
	return safe
}
