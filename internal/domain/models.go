package domain

import "time"

// Account is a registered service user kept for later runs.
type Account struct {
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	Password     string         `json:"password"`
	BaseURL      string         `json:"base_url"`
	Response     map[string]any `json:"response,omitempty"`
	RegisteredAt time.Time      `json:"registered_at"`
}
