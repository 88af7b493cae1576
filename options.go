package chsql

import "net/http"

// Option configures a Client at construction time.
type Option func(*config)

// WithBaseURL sets the ClickHouse HTTP endpoint. Default is
// http://localhost:8123.
func WithBaseURL(u string) Option {
	return func(c *config) { c.BaseURL = u }
}

// WithDatabase selects the database queries run against, sent as the
// database query-string parameter.
func WithDatabase(db string) Option {
	return func(c *config) { c.Database = db }
}

// WithFormat sets the default output format for queries. See ResolveFormat
// for accepted values.
func WithFormat(format string) Option {
	return func(c *config) { c.Format = format }
}

// WithMethod sets the default HTTP method, GET or POST. POST carries the SQL
// in the request body, GET in the query string.
func WithMethod(method string) Option {
	return func(c *config) { c.Method = method }
}

// WithBasicAuth sets passthrough credentials sent as a basic Authorization
// header.
func WithBasicAuth(username, password string) Option {
	return func(c *config) {
		c.Username = username
		c.Password = password
	}
}

// WithHeader adds a passthrough header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *config) { c.Header.Add(key, value) }
}

// WithHTTPClient substitutes the underlying http.Client, the hook for TLS,
// proxy and timeout configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.HTTPClient = hc }
}

// WithMaxRetries enables transport-level retries. The query core itself
// never retries; default is 0.
func WithMaxRetries(n int) Option {
	return func(c *config) { c.MaxRetries = n }
}

// queryOptions are the per-query settings, seeded from the client defaults.
type queryOptions struct {
	format   string
	database string
	method   string
	params   []Parameter
}

// QueryOption configures a single query invocation.
type QueryOption func(*queryOptions)

// WithQueryFormat overrides the output format for this query.
func WithQueryFormat(format string) QueryOption {
	return func(q *queryOptions) { q.format = format }
}

// WithQueryDatabase overrides the target database for this query.
func WithQueryDatabase(db string) QueryOption {
	return func(q *queryOptions) { q.database = db }
}

// WithQueryMethod overrides the HTTP method for this query.
func WithQueryMethod(method string) QueryOption {
	return func(q *queryOptions) { q.method = method }
}

// WithParameters appends named query parameters in order.
func WithParameters(params ...Parameter) QueryOption {
	return func(q *queryOptions) { q.params = append(q.params, params...) }
}

// WithParameter appends one named query parameter.
func WithParameter(name string, value any) QueryOption {
	return func(q *queryOptions) { q.params = append(q.params, Parameter{Name: name, Value: value}) }
}
