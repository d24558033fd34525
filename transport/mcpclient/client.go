package mcpclient

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/toolbridge/transport"
)

const (
	clientName    = "toolbridge"
	clientVersion = "1.0.0"

	protocolVersion = "2024-11-05"
)

// Client implements transport.Transport over the Model Context Protocol.
// The concrete wire transport (stdio subprocess or streamable HTTP) is
// chosen by the constructor; everything above the mcp-go client is shared.
type Client struct {
	dial func() (client.MCPClient, error)

	mu        sync.RWMutex
	client    client.MCPClient
	connected bool
}

// Start establishes the connection and performs the MCP protocol
// handshake. Calling Start on a connected client is a no-op.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	mcpClient, err := c.dial()
	if err != nil {
		return &transport.Error{Op: "start", Err: err}
	}

	_, err = mcpClient.Initialize(ctx, mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: protocolVersion,
			ClientInfo: mcp.Implementation{
				Name:    clientName,
				Version: clientVersion,
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	})
	if err != nil {
		_ = mcpClient.Close()
		if isContextErr(err) {
			return err
		}
		return &transport.Error{Op: "start", Err: err}
	}

	c.client = mcpClient
	c.connected = true
	return nil
}

// Stop cleanly shuts down the client connection.
func (c *Client) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected || c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	c.connected = false
	if err != nil {
		return &transport.Error{Op: "stop", Err: err}
	}
	return nil
}

// ListOperations returns the provider's current operation list.
func (c *Client) ListOperations(ctx context.Context) ([]transport.Listing, error) {
	c.mu.RLock()
	mcpClient, connected := c.client, c.connected
	c.mu.RUnlock()

	if !connected || mcpClient == nil {
		return nil, &transport.Error{Op: "list", Err: transport.ErrNotConnected}
	}

	result, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		if isContextErr(err) {
			return nil, err
		}
		return nil, &transport.Error{Op: "list", Err: err}
	}

	listings := make([]transport.Listing, 0, len(result.Tools))
	for _, tool := range result.Tools {
		listings = append(listings, transport.Listing{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: schemaToMap(tool.InputSchema),
		})
	}
	return listings, nil
}

// Invoke executes a named operation and returns the provider's raw
// response envelope. The first textual content block becomes the envelope
// text; unwrapping it is the operation layer's concern.
func (c *Client) Invoke(ctx context.Context, name string, args map[string]any) (transport.Envelope, error) {
	c.mu.RLock()
	mcpClient, connected := c.client, c.connected
	c.mu.RUnlock()

	if !connected || mcpClient == nil {
		return transport.Envelope{}, &transport.Error{Op: "invoke", Err: transport.ErrNotConnected}
	}

	result, err := mcpClient.CallTool(ctx, mcp.CallToolRequest{
		Params: struct {
			Name      string    `json:"name"`
			Arguments any       `json:"arguments,omitempty"`
			Meta      *mcp.Meta `json:"_meta,omitempty"`
		}{
			Name:      name,
			Arguments: args,
		},
	})
	if err != nil {
		if isContextErr(err) {
			return transport.Envelope{}, err
		}
		return transport.Envelope{}, &transport.Error{Op: "invoke", Err: err}
	}

	envelope := transport.Envelope{IsError: result.IsError}
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			envelope.Text = textContent.Text
			break
		}
	}
	return envelope, nil
}

// schemaToMap converts a tool's input schema to the raw map form the
// schema package parses. A JSON round trip normalizes the field types to
// what json.Unmarshal would produce.
func schemaToMap(s mcp.ToolInputSchema) map[string]any {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
