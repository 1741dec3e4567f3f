package models

import "time"

// StackConfig represents one configured deployment of the platform
type StackConfig struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
	CABundle  string `json:"ca_bundle,omitempty"`
}

// Credentialed reports whether the stack has an access key configured
func (s StackConfig) Credentialed() bool {
	return s.AccessKey != ""
}

// Session is an authenticated connection to a single stack. It lives for one
// run and is never persisted.
type Session struct {
	StackName string
	BaseURL   string
	CABundle  string
	Token     string
	// ExpiresAt is read from the token's exp claim when present. Informational only.
	ExpiresAt time.Time
}

// StackVersion represents the platform version reported by a stack
type StackVersion struct {
	Stack   string `json:"stack"`
	URL     string `json:"url"`
	Version string `json:"version"`
	Newest  bool   `json:"newest"`
}
