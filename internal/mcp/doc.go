// Package mcp implements the Model Context Protocol server for the pet catalog.
//
// # Overview
//
// MCP (Model Context Protocol) is a standard for AI tool integration. This
// package provides an MCP-compatible HTTP server that exposes the pet
// adoption tools, resources, and prompts to external AI clients (like
// Claude Desktop, other LLMs, or custom applications).
//
// # Protocol
//
// The server speaks JSON-RPC 2.0 over HTTP POST on a single endpoint:
//
//   - POST /mcp - all JSON-RPC methods
//   - DELETE /mcp - session termination (Mcp-Session-Id header)
//
// Supported methods: initialize, initialized, tools/list, tools/call,
// resources/list, resources/read, prompts/list, prompts/get,
// logging/setLevel.
//
// # Error channels
//
// The server distinguishes two failure channels and never conflates them:
//
//   - Protocol errors (malformed envelope, unknown method, unknown resource
//     URI, bad logging level) use the JSON-RPC error field with standard
//     codes (-32600, -32601, -32602, -32603).
//   - Tool-execution failures (unknown tool, failed argument validation,
//     not-found or already-adopted from the store) are reported inside a
//     success result with isError set, so an LLM client can inspect the
//     failure without treating it as a transport fault.
//
// # Sessions
//
// initialize creates a session and returns its id in the Mcp-Session-Id
// response header. Clients send the header on subsequent requests. The
// server is permissive: methods still execute without a valid session,
// logging a warning instead of rejecting.
//
// # Tool Execution
//
// Clients call tools/call to execute a tool:
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/call",
//	  "params": {
//	    "name": "get_pet_by_name",
//	    "arguments": {"pet_name": "Tweety"}
//	  },
//	  "id": 2
//	}
//
// Successful results carry one text content item holding the JSON encoding
// of the result plus the same object in structuredContent.
//
// # Usage
//
//	reg, _ := tools.NewRegistry(store, logger)
//	server, _ := mcp.NewServer(mcp.Config{Registry: reg, Logger: logger})
//	mux := http.NewServeMux()
//	server.RegisterRoutes(mux)
package mcp
