package pipeline

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	resp *Response
	err  error
	seen *Request
}

func (f *fakeTransport) RoundTrip(_ context.Context, req *Request) (*Response, error) {
	f.seen = req
	return f.resp, f.err
}

func newRequest() *Request {
	u, _ := url.Parse("http://localhost:8123")
	return &Request{
		Method: http.MethodPost,
		URL:    u,
		Header: http.Header{},
		Meta:   map[string]any{},
	}
}

func TestChain_RunsStepsInOrder(t *testing.T) {
	var order []string
	step := func(name string) Step {
		return Step{Name: name, Run: func(*Exchange) error {
			order = append(order, name)
			return nil
		}}
	}

	ft := &fakeTransport{resp: &Response{StatusCode: 200}}
	chain := New(ft)
	chain.AppendRequest(step("first"), step("second"))
	chain.AppendResponse(step("third"))

	resp, err := chain.Execute(context.Background(), newRequest())
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.NotNil(t, ft.seen)
}

func TestChain_HaltSkipsRemainingStepsOfTheSameHalf(t *testing.T) {
	var ran []string
	chain := New(&fakeTransport{resp: &Response{StatusCode: 200}})
	chain.AppendRequest(Step{Name: "halting", Run: func(ex *Exchange) error {
		ran = append(ran, "halting")
		ex.Halt()
		return nil
	}})
	chain.AppendRequest(Step{Name: "skipped", Run: func(*Exchange) error {
		ran = append(ran, "skipped")
		return nil
	}})
	// the response half starts fresh
	chain.AppendResponse(Step{Name: "response", Run: func(*Exchange) error {
		ran = append(ran, "response")
		return nil
	}})

	_, err := chain.Execute(context.Background(), newRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"halting", "response"}, ran)
}

func TestChain_StepErrorAborts(t *testing.T) {
	stepErr := errors.New("boom")
	ft := &fakeTransport{resp: &Response{StatusCode: 200}}
	chain := New(ft)
	chain.AppendRequest(Step{Name: "failing", Run: func(*Exchange) error {
		return stepErr
	}})

	_, err := chain.Execute(context.Background(), newRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, stepErr)
	assert.Contains(t, err.Error(), "failing")
	// the transport never ran
	assert.Nil(t, ft.seen)
}

func TestChain_TransportErrorPassesThrough(t *testing.T) {
	transportErr := errors.New("connection refused")
	chain := New(&fakeTransport{err: transportErr})

	var responseRan bool
	chain.AppendResponse(Step{Name: "response", Run: func(*Exchange) error {
		responseRan = true
		return nil
	}})

	_, err := chain.Execute(context.Background(), newRequest())
	assert.ErrorIs(t, err, transportErr)
	assert.False(t, responseRan)
}
