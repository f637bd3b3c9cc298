package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/taskprobe/pkg/httpclient"
)

const (
	// Supported source kinds.
	KindRandomUser = "randomuser"
	KindLocal      = "local"

	// DefaultRandomUserURL is the public randomuser.me endpoint.
	DefaultRandomUserURL = "https://randomuser.me/api"
)

// ErrIdentityUnavailable is returned when a source cannot produce an identity.
var ErrIdentityUnavailable = errors.New("identity unavailable")

// Identity is the synthetic user used to seed a registration.
type Identity struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Source produces a fresh identity per call.
type Source interface {
	Next(ctx context.Context) (Identity, error)
}

// NewSource builds the configured identity source.
func NewSource(kind string, client httpclient.Client, url string, log Logger) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindRandomUser:
		return NewRandomUserSource(client, url, log), nil
	case KindLocal:
		return NewLocalSource(""), nil
	default:
		return nil, fmt.Errorf("unsupported identity source %q", kind)
	}
}
