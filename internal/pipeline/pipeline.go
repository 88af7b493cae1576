package pipeline

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// Request is the mutable outgoing request shared by all request steps of a
// chain. It is built fresh for every query and never reused, so steps may
// rewrite it freely.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte

	// Meta carries request-scoped metadata written by request steps and read
	// back by response steps after the round trip.
	Meta map[string]any
}

// Response is the mutable result of the round trip, shared by all response
// steps of a chain.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// Decoded holds a post-processed body when a response step replaced it.
	Decoded any
}

// Transport performs the single network round trip between the request and
// response halves of a chain.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
}

// Exchange is the state threaded through one chain run. Response is nil
// while the request steps execute.
type Exchange struct {
	Request  *Request
	Response *Response

	halted bool
}

// Halt skips the remaining steps of the current half of the chain.
func (e *Exchange) Halt() {
	e.halted = true
}

func (e *Exchange) Halted() bool {
	return e.halted
}

// Step is one named transformation applied to the exchange. Returning an
// error aborts the whole chain.
type Step struct {
	Name string
	Run  func(*Exchange) error
}

// Chain is an ordered list of request steps, a transport, and an ordered
// list of response steps. A chain is built per query invocation and holds no
// state of its own between runs.
type Chain struct {
	request   []Step
	response  []Step
	transport Transport
}

func New(t Transport) *Chain {
	return &Chain{transport: t}
}

func (c *Chain) AppendRequest(steps ...Step) {
	c.request = append(c.request, steps...)
}

func (c *Chain) AppendResponse(steps ...Step) {
	c.response = append(c.response, steps...)
}

// Execute runs the request steps in registration order, performs the round
// trip, then runs the response steps. A step error aborts immediately; a
// halted exchange skips the remaining steps of that half only.
func (c *Chain) Execute(ctx context.Context, req *Request) (*Response, error) {
	ex := &Exchange{Request: req}
	for _, s := range c.request {
		if err := s.Run(ex); err != nil {
			return nil, errors.Wrapf(err, "request step %s", s.Name)
		}
		if ex.halted {
			break
		}
	}

	resp, err := c.transport.RoundTrip(ctx, req)
	if err != nil {
		return nil, err
	}

	ex.Response = resp
	ex.halted = false
	for _, s := range c.response {
		if err := s.Run(ex); err != nil {
			return nil, errors.Wrapf(err, "response step %s", s.Name)
		}
		if ex.halted {
			break
		}
	}
	return ex.Response, nil
}
