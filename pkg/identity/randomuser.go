package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/taskprobe/pkg/envelope"
	"github.com/Adda-Baaj/taskprobe/pkg/httpclient"
)

// RandomUserSource fetches identities from randomuser.me.
type RandomUserSource struct {
	client httpclient.Client
	url    string
	log    Logger
}

type randomUserPayload struct {
	Results []struct {
		Email string `json:"email"`
		Login struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"login"`
	} `json:"results"`
}

// NewRandomUserSource builds a source against url (or the public endpoint).
func NewRandomUserSource(client httpclient.Client, url string, log Logger) *RandomUserSource {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	if strings.TrimSpace(url) == "" {
		url = DefaultRandomUserURL
	}
	return &RandomUserSource{
		client: client,
		url:    url,
		log:    ensureLogger(log),
	}
}

// Next fetches one random user and returns its email, username and password.
func (s *RandomUserSource) Next(ctx context.Context) (Identity, error) {
	s.log.InfoObj("fetching random identity", "identity_source", map[string]any{"url": s.url})

	resp, err := s.client.Get(ctx, s.url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return Identity{}, s.fail(fmt.Errorf("fetch %s: %w", s.url, err))
	}

	var payload randomUserPayload
	if err := envelope.DecodeInto(resp, &payload); err != nil {
		return Identity{}, s.fail(err)
	}
	if len(payload.Results) == 0 {
		return Identity{}, s.fail(fmt.Errorf("response has no results"))
	}

	first := payload.Results[0]
	id := Identity{
		Email:    strings.TrimSpace(first.Email),
		Name:     strings.TrimSpace(first.Login.Username),
		Password: first.Login.Password,
	}
	switch {
	case id.Email == "":
		return Identity{}, s.fail(fmt.Errorf("result is missing email"))
	case id.Name == "":
		return Identity{}, s.fail(fmt.Errorf("result is missing login.username"))
	case id.Password == "":
		return Identity{}, s.fail(fmt.Errorf("result is missing login.password"))
	}

	s.log.InfoObj("random identity received", "identity", id)
	return id, nil
}

func (s *RandomUserSource) fail(err error) error {
	s.log.ErrorObj("random identity fetch failed", "identity_error", map[string]any{
		"url":   s.url,
		"error": err.Error(),
	})
	return fmt.Errorf("%w: %w", ErrIdentityUnavailable, err)
}
