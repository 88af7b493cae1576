package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/livebook-dev/req-ch/internal/pipeline"
	"github.com/livebook-dev/req-ch/logger"
)

// Client performs the HTTP round trip for a pipeline chain. Retries are
// disabled unless the caller opts in; the query core never retries on its
// own.
type Client struct {
	http *retryablehttp.Client
}

func New(hc *http.Client, maxRetries int) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.Logger = leveledLogger{}
	if hc != nil {
		rc.HTTPClient = hc
	}
	return &Client{http: rc}
}

func (c *Client) RoundTrip(ctx context.Context, req *pipeline.Request) (*pipeline.Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "building http request")
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}

	hresp, err := c.http.Do(hreq)
	if err != nil {
		return nil, errors.Wrap(err, "http round trip")
	}
	defer hresp.Body.Close()

	data, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}

	return &pipeline.Response{
		StatusCode: hresp.StatusCode,
		Header:     hresp.Header,
		Body:       data,
	}, nil
}

// leveledLogger routes retryablehttp's internal logging through the package
// logger.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.Log.Error().Fields(keysAndValues).Msg(msg)
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.Log.Warn().Fields(keysAndValues).Msg(msg)
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Log.Info().Fields(keysAndValues).Msg(msg)
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.Log.Debug().Fields(keysAndValues).Msg(msg)
}
