package httpclient

import (
	"context"
	"io"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
}

// FilePart is a single file attached to a multipart request.
type FilePart struct {
	Param    string
	FileName string
	Reader   io.Reader
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	PostJSON(ctx context.Context, url string, body any) (Response, error)
	PostForm(ctx context.Context, url string, fields map[string]string) (Response, error)
	PostMultipart(ctx context.Context, url string, fields map[string]string, files ...FilePart) (Response, error)
}
