package envelope

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

type fakeResponse struct {
	status int
	header http.Header
	body   []byte
}

func (f fakeResponse) Body() []byte        { return f.body }
func (f fakeResponse) StatusCode() int     { return f.status }
func (f fakeResponse) Header() http.Header { return f.header }

func respWith(status int, contentType, body string) fakeResponse {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return fakeResponse{status: status, header: h, body: []byte(body)}
}

func TestValidAcceptsJSONWithCharset(t *testing.T) {
	if !Valid(respWith(http.StatusOK, "application/json; charset=utf-8", `{}`)) {
		t.Fatalf("expected response to be valid")
	}
}

func TestValidAcceptsPaddedElements(t *testing.T) {
	if !Valid(respWith(http.StatusOK, "charset=utf-8 ;  application/json ", `{}`)) {
		t.Fatalf("expected trimmed application/json element to be accepted")
	}
}

func TestCheckRejectsNonOKStatus(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
		err := Check(respWith(status, "application/json", `{"message":"nope"}`))
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Fatalf("status %d: expected ErrUnexpectedStatus, got %v", status, err)
		}
		var respErr *ResponseError
		if !errors.As(err, &respErr) || respErr.StatusCode != status {
			t.Fatalf("status %d: expected ResponseError with status, got %#v", status, err)
		}
	}
}

func TestCheckRejectsHTML(t *testing.T) {
	err := Check(respWith(http.StatusOK, "text/html", `<html><head><title>Maintenance</title></head></html>`))
	if !errors.Is(err, ErrNotJSON) {
		t.Fatalf("expected ErrNotJSON, got %v", err)
	}
	if !strings.Contains(err.Error(), "Maintenance") {
		t.Fatalf("expected html title in error, got %v", err)
	}
}

func TestCheckRequiresExactElement(t *testing.T) {
	if Valid(respWith(http.StatusOK, "application/json-patch+json", `{}`)) {
		t.Fatalf("expected partial match to be rejected")
	}
	if Valid(respWith(http.StatusOK, "", `{}`)) {
		t.Fatalf("expected missing content type to be rejected")
	}
}

func TestCheckNilResponse(t *testing.T) {
	if Valid(nil) {
		t.Fatalf("expected nil response to be invalid")
	}
}

func TestDecode(t *testing.T) {
	doc, err := Decode(respWith(http.StatusOK, "application/json", `{"token":"abc"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc["token"] != "abc" {
		t.Fatalf("unexpected doc %#v", doc)
	}

	if _, err := Decode(respWith(http.StatusOK, "application/json", `not json`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSnippetTruncates(t *testing.T) {
	long := strings.Repeat("x", 600)
	got := Snippet([]byte(long))
	if len(got) != 515 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected snippet length %d", len(got))
	}
}
