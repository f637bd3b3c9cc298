package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const defaultLocalDomain = "example.com"

// LocalSource generates identities without network access.
type LocalSource struct {
	domain string
	newID  func() string
}

// NewLocalSource returns a source producing unique addresses under domain.
func NewLocalSource(domain string) *LocalSource {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		domain = defaultLocalDomain
	}
	return &LocalSource{
		domain: domain,
		newID:  func() string { return uuid.NewString() },
	}
}

func (s *LocalSource) Next(ctx context.Context) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	id := strings.ReplaceAll(s.newID(), "-", "")
	short := id
	if len(short) > 12 {
		short = short[:12]
	}
	return Identity{
		Email:    "probe." + short + "@" + s.domain,
		Name:     "probe_" + short,
		Password: id,
	}, nil
}
