package taskapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Adda-Baaj/taskprobe/pkg/httpclient"
	"github.com/Adda-Baaj/taskprobe/pkg/identity"
)

// Registration is one successful doRegister call.
type Registration struct {
	Response Document `json:"json"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
}

// Registrations holds successful registrations keyed "0", "1", ... in success order.
type Registrations map[string]Registration

// Ordered returns the registrations sorted by key.
func (r Registrations) Ordered() []Registration {
	out := make([]Registration, 0, len(r))
	for i := 0; i < len(r); i++ {
		if reg, ok := r[strconv.Itoa(i)]; ok {
			out = append(out, reg)
		}
	}
	return out
}

// Register registers count fresh identities. Failed iterations are skipped and
// reported through the joined error; successes are always returned.
func (c *Client) Register(ctx context.Context, count int) (Registrations, error) {
	out := make(Registrations, count)
	if count <= 0 {
		return out, nil
	}

	var errs []error
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		id, err := c.identities.Next(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("registration %d: %w", i, err))
			c.log.ErrorObj("doRegister skipped", "register_error", map[string]any{
				"iteration": i,
				"error":     err.Error(),
			})
			continue
		}

		doc, err := c.RegisterIdentity(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("registration %d: %w", i, err))
			continue
		}

		out[strconv.Itoa(len(out))] = Registration{
			Response: doc,
			Email:    id.Email,
			Name:     id.Name,
			Password: id.Password,
		}
	}

	c.log.InfoObj("doRegister finished", "register_result", map[string]any{
		"requested":  count,
		"registered": len(out),
	})
	return out, errors.Join(errs...)
}

// RegisterIdentity registers a single, caller supplied identity.
func (c *Client) RegisterIdentity(ctx context.Context, id identity.Identity) (Document, error) {
	return c.call(ctx, "doRegister", EndpointRegister, map[string]any{"email": id.Email, "name": id.Name}, func(u string) (httpclient.Response, error) {
		return c.http.PostJSON(ctx, u, registerRequest{Email: id.Email, Name: id.Name, Password: id.Password})
	})
}
