package chsql

import (
	"net/http"
	"net/url"

	"github.com/livebook-dev/req-ch/internal/pipeline"
)

// metaFormatDecision keys the per-request format decision in the exchange
// metadata. Its presence also marks the request as already built, making the
// build step a no-op if the chain ever runs it twice.
const metaFormatDecision = "chsql_format_decision"

// formatDecision records the resolved format and the literal header value
// sent for one request, read back by the response interpreter.
type formatDecision struct {
	// Format is the canonical token, or FormatExplorer.
	Format string
	// Header is the X-ClickHouse-Format value actually sent. For the
	// explorer sentinel it is Parquet, not the sentinel's own name.
	Header string
}

// buildQueryStep shapes the outgoing request: it resolves the output format,
// records the format decision, places the SQL text, and appends parameter
// and database query-string pairs. All validation happens here, before any
// bytes go over the network.
func buildQueryStep(sql string, q *queryOptions) pipeline.Step {
	return pipeline.Step{Name: "build_query", Run: func(ex *pipeline.Exchange) error {
		req := ex.Request
		if _, ok := req.Meta[metaFormatDecision]; ok {
			return nil
		}

		if sql == "" {
			return validationErrorf("missing required sql text")
		}

		resolved, err := ResolveFormat(q.format)
		if err != nil {
			return err
		}
		decision := formatDecision{Format: resolved, Header: resolved}
		if resolved == FormatExplorer {
			decision.Header = parquetFormat
		}
		req.Meta[metaFormatDecision] = decision
		req.Header.Set(formatHeader, decision.Header)

		// POST carries the SQL verbatim in the body; GET carries it as the
		// query parameter instead. Placement only, same semantics.
		if req.Method == http.MethodGet {
			req.Body = nil
			appendQueryPairs(req.URL, []queryPair{{key: "query", value: sql}})
		} else {
			req.Body = []byte(sql)
		}

		if len(q.params) > 0 {
			pairs, err := encodeParameters(q.params)
			if err != nil {
				return err
			}
			appendQueryPairs(req.URL, pairs)
		}

		if q.database != "" {
			appendQueryPairs(req.URL, []queryPair{{key: "database", value: q.database}})
		}
		return nil
	}}
}

// newRequest builds the blank outgoing request a chain starts from: base
// URL, method and the client's passthrough headers. Each call gets its own
// header map and metadata bag, so concurrent queries on one client never
// share state.
func (c *Client) newRequest(q *queryOptions) (*pipeline.Request, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, validationErrorf("invalid base URL %q: %v", c.cfg.BaseURL, err)
	}

	header := make(http.Header, len(c.cfg.Header)+3)
	for k, vs := range c.cfg.Header {
		for _, v := range vs {
			header[k] = append(header[k], v)
		}
	}
	header.Set("User-Agent", userAgent())
	if c.cfg.Username != "" || c.cfg.Password != "" {
		header.Set("Authorization", basicAuth(c.cfg.Username, c.cfg.Password))
	}

	return &pipeline.Request{
		Method: q.method,
		URL:    u,
		Header: header,
		Meta:   map[string]any{},
	}, nil
}
