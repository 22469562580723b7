package httpclient

import (
	"io"
	"net/http"
)

// Request describes an outbound HTTP request relative to a client's BaseURL.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// Path is appended to the client's BaseURL. A full URL is used as is.
	Path string
	// Headers are request-specific headers, overriding client defaults.
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is sent unmodified.
	Body io.Reader
	// ContentType is set when Body is non-nil and no Content-Type header is given.
	ContentType string
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers http.Header
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
