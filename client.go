package chsql

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/livebook-dev/req-ch/internal/pipeline"
	"github.com/livebook-dev/req-ch/internal/transport"
	"github.com/livebook-dev/req-ch/logger"
)

const (
	ClientName    = "chsqlclient"
	ClientVersion = "0.1.0"

	modulePath = "github.com/livebook-dev/req-ch"
)

// Client issues SQL queries to a ClickHouse server over its HTTP interface.
// A Client is immutable after construction and safe for concurrent use:
// every query builds its own request, pipeline chain and metadata.
type Client struct {
	cfg       *config
	transport pipeline.Transport
}

// NewClient builds a Client from functional options. With no options it
// targets http://localhost:8123 with the TabSeparated format over POST.
func NewClient(opts ...Option) (*Client, error) {
	cfg := withDefaults()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Method != http.MethodGet && cfg.Method != http.MethodPost {
		return nil, validationErrorf("unsupported method %q: use GET or POST", cfg.Method)
	}
	return &Client{
		cfg:       cfg.DeepCopy(),
		transport: transport.New(cfg.HTTPClient, cfg.MaxRetries),
	}, nil
}

// QueryContext runs one SQL query and returns the server's response. All
// option validation, format resolution and parameter encoding happen before
// the network call; a failure there means nothing was sent.
//
// A non-2xx status is not an error: the response is returned with the body
// intact for the caller to inspect.
func (c *Client) QueryContext(ctx context.Context, sql string, opts ...QueryOption) (*Response, error) {
	q := c.cfg.queryDefaults()
	for _, opt := range opts {
		opt(q)
	}
	if q.method != http.MethodGet && q.method != http.MethodPost {
		return nil, validationErrorf("unsupported method %q: use GET or POST", q.method)
	}

	req, err := c.newRequest(q)
	if err != nil {
		return nil, err
	}

	chain := pipeline.New(c.transport)
	chain.AppendRequest(buildQueryStep(sql, q))
	chain.AppendResponse(decodeTableStep())

	resp, err := chain.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Log.Debug().
		Str("method", req.Method).
		Str("format", q.format).
		Int("status", resp.StatusCode).
		Msg("query round trip")

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
	}
	if table, ok := resp.Decoded.(Table); ok {
		out.Table = table
	}
	return out, nil
}

// Query is QueryContext with a background context.
func (c *Client) Query(sql string, opts ...QueryOption) (*Response, error) {
	return c.QueryContext(context.Background(), sql, opts...)
}

// MustQuery is the raising variant of Query: it panics on any validation or
// transport error instead of returning it.
func (c *Client) MustQuery(sql string, opts ...QueryOption) *Response {
	resp, err := c.Query(sql, opts...)
	if err != nil {
		panic(err)
	}
	return resp
}

// Ping checks server reachability via the /ping endpoint.
func (c *Client) Ping(ctx context.Context) error {
	q := c.cfg.queryDefaults()
	q.method = http.MethodGet
	req, err := c.newRequest(q)
	if err != nil {
		return err
	}
	req.URL = req.URL.JoinPath("ping")

	resp, err := c.transport.RoundTrip(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("chsql: ping returned status %d", resp.StatusCode)
	}
	return nil
}

func userAgent() string {
	return fmt.Sprintf("%s/%s", ClientName, ClientVersion)
}

func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
