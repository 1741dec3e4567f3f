package models

import (
	"encoding/json"
	"time"
)

// NeverLoggedIn is the lastLoginTs value for users who never logged in
const NeverLoggedIn int64 = -1

// User represents one tenant user as returned by the user-list endpoint
type User struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	TimeZone    string `json:"timeZone"`
	LastLoginTs int64  `json:"lastLoginTs"`
}

// HasLoggedIn reports whether the user has ever logged in
func (u User) HasLoggedIn() bool {
	return u.LastLoginTs != NeverLoggedIn
}

// LastLogin returns the last login time in the user's own time zone,
// falling back to local time when the zone is unknown.
func (u User) LastLogin() time.Time {
	t := time.UnixMilli(u.LastLoginTs)
	if u.TimeZone == "" {
		return t.Local()
	}
	loc, err := time.LoadLocation(u.TimeZone)
	if err != nil {
		return t.Local()
	}
	return t.In(loc)
}

// ParseUsers decodes a user-list payload
func ParseUsers(payload json.RawMessage) ([]User, error) {
	var users []User
	if err := json.Unmarshal(payload, &users); err != nil {
		return nil, err
	}
	return users, nil
}
