package chsql

import "net/http"

// config holds the client-level settings. Connection-level concerns beyond
// the base URL (TLS, proxies, timeouts) belong to the http.Client supplied
// via WithHTTPClient.
type config struct {
	BaseURL  string
	Database string
	Format   string
	Method   string

	// passthrough credentials and headers, not interpreted by the client
	Username string
	Password string
	Header   http.Header

	HTTPClient *http.Client
	MaxRetries int
}

func withDefaults() *config {
	return &config{
		BaseURL: "http://localhost:8123",
		Format:  "TabSeparated",
		Method:  http.MethodPost,
		Header:  http.Header{},
	}
}

func (c *config) DeepCopy() *config {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Header = make(http.Header, len(c.Header))
	for k, vs := range c.Header {
		cp.Header[k] = append([]string(nil), vs...)
	}
	return &cp
}

// queryDefaults seeds the per-query options from the client configuration.
func (c *config) queryDefaults() *queryOptions {
	return &queryOptions{
		format:   c.Format,
		database: c.Database,
		method:   c.Method,
	}
}
