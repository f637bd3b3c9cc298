// Package taskapi wraps the task service REST endpoints. Every call sends one
// request, validates the response envelope and returns the decoded body.
package taskapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Adda-Baaj/taskprobe/pkg/envelope"
	"github.com/Adda-Baaj/taskprobe/pkg/httpclient"
	"github.com/Adda-Baaj/taskprobe/pkg/identity"
)

// Client calls the task service at baseURL.
type Client struct {
	baseURL    string
	http       httpclient.Client
	identities identity.Source
	log        Logger
}

// NewClient validates baseURL and wires the collaborators.
func NewClient(baseURL string, hc httpclient.Client, identities identity.Source, log Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("base url is empty")
	}
	if u, err := url.Parse(baseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q (must be an absolute http(s) url)", baseURL)
	}
	if hc == nil {
		return nil, errors.New("http client must not be nil")
	}
	if identities == nil {
		identities = identity.NewRandomUserSource(hc, "", log)
	}
	return &Client{
		baseURL:    baseURL,
		http:       hc,
		identities: identities,
		log:        ensureLogger(log),
	}, nil
}

// BaseURL returns the normalized service base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Login authenticates email/password and returns the body carrying the token.
func (c *Client) Login(ctx context.Context, email, password string) (Document, error) {
	return c.call(ctx, "doLogin", EndpointLogin, map[string]any{"email": email}, func(u string) (httpclient.Response, error) {
		return c.http.PostJSON(ctx, u, loginRequest{Email: email, Password: password})
	})
}

// CreateTask creates a task for t.AssignEmail.
func (c *Client) CreateTask(ctx context.Context, t Task) (Document, error) {
	return c.call(ctx, "CreateTask", EndpointCreateTask, map[string]any{"email_assign": t.AssignEmail}, func(u string) (httpclient.Response, error) {
		return c.http.PostJSON(ctx, u, t)
	})
}

// CreateCompany creates a company and attaches its users.
func (c *Client) CreateCompany(ctx context.Context, co Company) (Document, error) {
	return c.call(ctx, "CreateCompany", EndpointCreateCompany, map[string]any{"company_name": co.Name}, func(u string) (httpclient.Response, error) {
		return c.http.PostJSON(ctx, u, co)
	})
}

// CreateUser creates a user with profile attributes.
func (c *Client) CreateUser(ctx context.Context, user User) (Document, error) {
	return c.call(ctx, "CreateUser", EndpointCreateUser, map[string]any{"email": user.Email}, func(u string) (httpclient.Response, error) {
		return c.http.PostJSON(ctx, u, user.withLists())
	})
}

// CreateUserWithTasks creates a user together with its task associations.
func (c *Client) CreateUserWithTasks(ctx context.Context, user User) (Document, error) {
	return c.call(ctx, "CreateUserWithTasks", EndpointCreateUserWithTasks, map[string]any{"email": user.Email}, func(u string) (httpclient.Response, error) {
		return c.http.PostJSON(ctx, u, user.withLists())
	})
}

// AddAvatar uploads avatar for email as a multipart request.
func (c *Client) AddAvatar(ctx context.Context, email string, avatar Avatar) (Document, error) {
	if avatar.Reader == nil {
		return nil, errors.New("avatar reader must not be nil")
	}
	fileName := avatar.FileName
	if strings.TrimSpace(fileName) == "" {
		fileName = "avatar"
	}
	return c.call(ctx, "addAvatar", EndpointAddAvatar, map[string]any{"email": email, "file": fileName}, func(u string) (httpclient.Response, error) {
		return c.http.PostMultipart(ctx, u,
			map[string]string{"email": email},
			httpclient.FilePart{Param: "avatar", FileName: fileName, Reader: avatar.Reader},
		)
	})
}

// DeleteAvatar removes the avatar of email.
func (c *Client) DeleteAvatar(ctx context.Context, email string) (Document, error) {
	return c.call(ctx, "DeleteAvatar", EndpointDeleteAvatar, map[string]any{"email": email}, func(u string) (httpclient.Response, error) {
		return c.http.PostForm(ctx, u, map[string]string{"email": email})
	})
}

// call sends one request through send, validates the envelope and decodes the body.
func (c *Client) call(ctx context.Context, method, endpoint string, meta map[string]any, send func(url string) (httpclient.Response, error)) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := c.baseURL + endpoint
	c.log.InfoObj("calling "+method, "request", map[string]any{
		"url":  target,
		"meta": meta,
	})

	resp, err := send(target)
	if err != nil {
		return nil, c.fail(method, target, fmt.Errorf("%s request: %w", method, err))
	}

	c.log.InfoObj("response received", "response_status", resp.StatusCode())
	c.log.DebugObj("response headers", "response_headers", resp.Header())

	doc, err := envelope.Decode(resp)
	if err != nil {
		return nil, c.fail(method, target, fmt.Errorf("%s: %w", method, err))
	}

	c.log.DebugObj("response body", "response_body", doc)
	return Document(doc), nil
}

func (c *Client) fail(method, target string, err error) error {
	c.log.ErrorObj(method+" failed", "call_error", map[string]any{
		"url":   target,
		"error": err.Error(),
	})
	return err
}
