// Package envelope checks the status and content type of task service
// responses before their JSON body is decoded.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Adda-Baaj/taskprobe/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

const jsonContentType = "application/json"

var (
	// ErrUnexpectedStatus is returned for any status other than 200.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrNotJSON is returned when the content type does not list application/json.
	ErrNotJSON = errors.New("response is not application/json")
)

// ResponseError describes a response that failed validation.
type ResponseError struct {
	StatusCode  int
	ContentType string
	Detail      string
	err         error
}

func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("%v: status %d content-type %q", e.err, e.StatusCode, e.ContentType)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ResponseError) Unwrap() error { return e.err }

// Check returns nil when resp has status 200 and a JSON content type.
func Check(resp httpclient.Response) error {
	if resp == nil {
		return &ResponseError{err: ErrUnexpectedStatus, Detail: "no response"}
	}

	contentType := ""
	if h := resp.Header(); h != nil {
		contentType = h.Get("Content-Type")
	}

	if resp.StatusCode() != http.StatusOK {
		return &ResponseError{
			StatusCode:  resp.StatusCode(),
			ContentType: contentType,
			Detail:      describeBody(resp.Body(), contentType),
			err:         ErrUnexpectedStatus,
		}
	}
	if !hasJSONContentType(contentType) {
		return &ResponseError{
			StatusCode:  resp.StatusCode(),
			ContentType: contentType,
			Detail:      describeBody(resp.Body(), contentType),
			err:         ErrNotJSON,
		}
	}
	return nil
}

// Valid reports whether resp passes Check.
func Valid(resp httpclient.Response) bool {
	return Check(resp) == nil
}

// Decode validates resp and unmarshals its body into a generic JSON document.
func Decode(resp httpclient.Response) (map[string]any, error) {
	if err := Check(resp); err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := json.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	return doc, nil
}

// DecodeInto validates resp and unmarshals its body into target.
func DecodeInto(resp httpclient.Response, target any) error {
	if err := Check(resp); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body(), target); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func hasJSONContentType(header string) bool {
	for _, elem := range strings.Split(header, ";") {
		if strings.TrimSpace(elem) == jsonContentType {
			return true
		}
	}
	return false
}

// describeBody returns a short human readable view of an error body. HTML
// pages are reduced to their title.
func describeBody(body []byte, contentType string) string {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		if title := htmlTitle(body); title != "" {
			return title
		}
	}
	return Snippet(body)
}

func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// Snippet trims body to a loggable size.
func Snippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
