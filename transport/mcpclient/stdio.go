package mcpclient

import (
	"fmt"

	"github.com/mark3labs/mcp-go/client"
)

// NewStdio creates a Client that starts command as a subprocess and
// speaks MCP over its stdin/stdout. env entries are KEY=VALUE pairs added
// to the subprocess environment.
func NewStdio(command string, env map[string]string, args ...string) *Client {
	return &Client{
		dial: func() (client.MCPClient, error) {
			envStrings := make([]string, 0, len(env))
			for k, v := range env {
				envStrings = append(envStrings, fmt.Sprintf("%s=%s", k, v))
			}
			return client.NewStdioMCPClient(command, envStrings, args...)
		},
	}
}
