package platform

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lsmithpanw/pcs-where-is/internal/errors"
	"github.com/lsmithpanw/pcs-where-is/internal/models"
)

// API paths relative to a stack's base URL
const (
	PathLogin     = "/login"
	PathVersion   = "/version"
	PathCustomers = "/_support/customer"
	PathUsage     = "/_support/license/api/v1/usage/time_series"
	PathUsers     = "/v2/_support/user"
)

func (c *Client) call(ctx context.Context, s *models.Session, method, path string, payload interface{}) (json.RawMessage, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, errors.NewInternalError("unable to encode request body", err)
		}
	}
	return c.Execute(ctx, Request{
		Method:   method,
		URL:      s.BaseURL + path,
		Token:    s.Token,
		CABundle: s.CABundle,
		Body:     body,
	})
}

// Version fetches the platform version of the session's stack
func (c *Client) Version(ctx context.Context, s *models.Session) (json.RawMessage, error) {
	return c.call(ctx, s, http.MethodGet, PathVersion, nil)
}

// Customers fetches the full tenant list of the session's stack
func (c *Client) Customers(ctx context.Context, s *models.Session) (json.RawMessage, error) {
	return c.call(ctx, s, http.MethodGet, PathCustomers, nil)
}

// Usage fetches the usage time series of one tenant over the last unit of time
func (c *Client) Usage(ctx context.Context, s *models.Session, customerName, unit string) (json.RawMessage, error) {
	return c.call(ctx, s, http.MethodPost, PathUsage, models.NewUsageQuery(customerName, unit))
}

// Users fetches the user list of one tenant
func (c *Client) Users(ctx context.Context, s *models.Session, customerName string) (json.RawMessage, error) {
	return c.call(ctx, s, http.MethodPost, PathUsers, map[string]string{"customerName": customerName})
}
