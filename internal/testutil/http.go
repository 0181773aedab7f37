package testutil

import (
	"io"
	"net/http"
	"strings"
)

// RoundTripperFunc adapts a function into an http.RoundTripper so clients can be
// exercised without a listener.
type RoundTripperFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Response builds a canned response with the given status and body.
func Response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// NewHTTPClient returns an http.Client routed through fn.
func NewHTTPClient(fn RoundTripperFunc) *http.Client {
	return &http.Client{Transport: fn}
}
