package mcpclient

import (
	"net/http"

	"github.com/mark3labs/mcp-go/client"
	mcptransport "github.com/mark3labs/mcp-go/client/transport"
)

// HTTPOption configures a streamable HTTP client.
type HTTPOption func(*httpConfig)

type httpConfig struct {
	headers    map[string]string
	httpClient *http.Client
}

// WithHeaders adds custom headers to every request, such as bearer tokens
// supplied by the caller. Authentication design is the transport's
// caller's concern; the client only carries what it is given.
func WithHeaders(headers map[string]string) HTTPOption {
	return func(c *httpConfig) {
		c.headers = headers
	}
}

// WithHTTPClient sets a custom *http.Client, for callers that need their
// own TLS or proxy configuration.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *httpConfig) {
		c.httpClient = hc
	}
}

// NewStreamableHTTP creates a Client that speaks MCP over streamable HTTP
// to the given URL.
func NewStreamableHTTP(url string, opts ...HTTPOption) *Client {
	cfg := &httpConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{
		dial: func() (client.MCPClient, error) {
			var transportOpts []mcptransport.StreamableHTTPCOption
			if len(cfg.headers) > 0 {
				transportOpts = append(transportOpts, mcptransport.WithHTTPHeaders(cfg.headers))
			}
			if cfg.httpClient != nil {
				transportOpts = append(transportOpts, mcptransport.WithHTTPBasicClient(cfg.httpClient))
			}
			return client.NewStreamableHttpClient(url, transportOpts...)
		},
	}
}
