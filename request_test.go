package chsql

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livebook-dev/req-ch/internal/pipeline"
)

func buildExchange(t *testing.T, sql string, q *queryOptions) (*pipeline.Exchange, error) {
	t.Helper()
	c, err := NewClient()
	require.NoError(t, err)

	req, err := c.newRequest(q)
	require.NoError(t, err)

	ex := &pipeline.Exchange{Request: req}
	return ex, buildQueryStep(sql, q).Run(ex)
}

func TestBuildQuery_SQLPlacement(t *testing.T) {
	t.Run("POST carries the SQL verbatim in the body", func(t *testing.T) {
		q := withDefaults().queryDefaults()
		ex, err := buildExchange(t, "SELECT 1", q)
		require.NoError(t, err)

		assert.Equal(t, []byte("SELECT 1"), ex.Request.Body)
		assert.Empty(t, ex.Request.URL.RawQuery)
	})

	t.Run("GET carries the SQL as the query parameter", func(t *testing.T) {
		q := withDefaults().queryDefaults()
		q.method = http.MethodGet
		ex, err := buildExchange(t, "SELECT 1", q)
		require.NoError(t, err)

		assert.Empty(t, ex.Request.Body)
		assert.Equal(t, "query=SELECT+1", ex.Request.URL.RawQuery)
	})

	t.Run("parameters and database land in the query string regardless of method", func(t *testing.T) {
		q := withDefaults().queryDefaults()
		q.params = []Parameter{{Name: "n", Value: 3}}
		q.database = "analytics"
		ex, err := buildExchange(t, "SELECT {n:UInt64}", q)
		require.NoError(t, err)

		assert.Equal(t, []byte("SELECT {n:UInt64}"), ex.Request.Body)
		assert.Equal(t, "param_n=3&database=analytics", ex.Request.URL.RawQuery)
	})
}

func TestBuildQuery_FormatDecision(t *testing.T) {
	t.Run("canonical format is sent as the header verbatim", func(t *testing.T) {
		q := withDefaults().queryDefaults()
		q.format = "CSVWithNames"
		ex, err := buildExchange(t, "SELECT 1", q)
		require.NoError(t, err)

		assert.Equal(t, "CSVWithNames", ex.Request.Header.Get(formatHeader))
		decision := ex.Request.Meta[metaFormatDecision].(formatDecision)
		assert.Equal(t, formatDecision{Format: "CSVWithNames", Header: "CSVWithNames"}, decision)
	})

	t.Run("aliases resolve before the header is set", func(t *testing.T) {
		q := withDefaults().queryDefaults()
		q.format = "tsv"
		ex, err := buildExchange(t, "SELECT 1", q)
		require.NoError(t, err)

		assert.Equal(t, "TabSeparated", ex.Request.Header.Get(formatHeader))
	})

	t.Run("explorer sends the Parquet wire format", func(t *testing.T) {
		withStubDecoder(t, func([]byte) (Table, error) { return stubTable{}, nil })

		q := withDefaults().queryDefaults()
		q.format = "explorer"
		ex, err := buildExchange(t, "SELECT 1", q)
		require.NoError(t, err)

		assert.Equal(t, "Parquet", ex.Request.Header.Get(formatHeader))
		decision := ex.Request.Meta[metaFormatDecision].(formatDecision)
		assert.Equal(t, formatDecision{Format: FormatExplorer, Header: "Parquet"}, decision)
	})
}

func TestBuildQuery_Validation(t *testing.T) {
	t.Run("missing SQL", func(t *testing.T) {
		q := withDefaults().queryDefaults()
		ex, err := buildExchange(t, "", q)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		// nothing was mutated
		assert.Empty(t, ex.Request.Header.Get(formatHeader))
		assert.Empty(t, ex.Request.Meta)
	})

	t.Run("unresolvable format aborts before any mutation", func(t *testing.T) {
		q := withDefaults().queryDefaults()
		q.format = "bogus"
		q.database = "analytics"
		ex, err := buildExchange(t, "SELECT 1", q)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Empty(t, ex.Request.Header.Get(formatHeader))
		assert.Empty(t, ex.Request.Body)
		assert.Empty(t, ex.Request.URL.RawQuery)
	})
}

func TestBuildQuery_Idempotent(t *testing.T) {
	q := withDefaults().queryDefaults()
	q.params = []Parameter{{Name: "n", Value: 3}}
	ex, err := buildExchange(t, "SELECT {n:UInt64}", q)
	require.NoError(t, err)
	rawQuery := ex.Request.URL.RawQuery

	// a second application is a no-op once the format decision is recorded
	require.NoError(t, buildQueryStep("SELECT {n:UInt64}", q).Run(ex))
	assert.Equal(t, rawQuery, ex.Request.URL.RawQuery)
}

func TestNewRequest_PassthroughHeaders(t *testing.T) {
	c, err := NewClient(
		WithBasicAuth("reader", "secret"),
		WithHeader("X-ClickHouse-Quota", "default"),
	)
	require.NoError(t, err)

	req, err := c.newRequest(c.cfg.queryDefaults())
	require.NoError(t, err)

	assert.Equal(t, "Basic cmVhZGVyOnNlY3JldA==", req.Header.Get("Authorization"))
	assert.Equal(t, "default", req.Header.Get("X-ClickHouse-Quota"))
	assert.Equal(t, userAgent(), req.Header.Get("User-Agent"))
	assert.Equal(t, "http://localhost:8123", req.URL.String())
}
