// Package mcpclient implements transport.Transport over the Model Context
// Protocol.
//
// Two wire transports are supported:
//
//   - [NewStdio]: starts a subprocess and speaks MCP over stdin/stdout
//   - [NewStreamableHTTP]: speaks MCP over streamable HTTP to a URL
//
// Start performs the protocol handshake; ListOperations maps the server's
// tool list onto raw listings (the tool input schema is carried as a plain
// map for the schema package to parse); Invoke calls a tool and returns
// the response envelope with its first textual content block.
package mcpclient
