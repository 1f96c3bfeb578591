// Package mcp exposes the tool registry over the Model Context Protocol.
//
// Every tool registered with the registry is published unchanged: the MCP
// tool name, description, and input schema come straight from its
// Definition. Results are rendered as JSON text content; structured
// business failures become error results with sanitized detail payloads.
//
// The server typically runs on a stdio transport for local model hosts.
// Caller identity (user id, auth token) is fixed at server construction
// since MCP transports carry no per-request credentials.
package mcp
