package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	"github.com/lsmithpanw/pcs-where-is/internal/errors"
	"github.com/lsmithpanw/pcs-where-is/internal/logger"
	"github.com/lsmithpanw/pcs-where-is/internal/models"
	"github.com/lsmithpanw/pcs-where-is/internal/utils"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges a stack's access key and secret for a session token. Login
// is never retried. Any returned error other than a fatal one means "no
// session": the caller skips the stack.
func (c *Client) Login(ctx context.Context, stack models.StackConfig, caBundle string) (*models.Session, error) {
	url := stack.URL + PathLogin
	body, err := json.Marshal(loginRequest{Username: stack.AccessKey, Password: stack.SecretKey})
	if err != nil {
		return nil, errors.NewInternalError("unable to encode login request", err)
	}

	res, err := c.send(ctx, Request{Method: http.MethodPost, URL: url, CABundle: caBundle, Body: body})
	if err != nil {
		if ctx.Err() != nil || errors.IsType(err, errors.ErrorTypeConfig) {
			return nil, err
		}
		utils.ErrorFprintf(c.out, "API (%s) request failed: %v", url, err)
		return nil, errors.NewAuthError("login request failed", err).WithContext("url", url)
	}

	if c.debug {
		logger.GetLogger().Debug("login",
			zap.String("method", http.MethodPost),
			zap.String("url", url),
			zap.String("username", stack.AccessKey),
			zap.Int("status", res.Code))
	}

	if !res.OK() {
		utils.ErrorFprintf(c.out, "API (%s) responded with an error\n%s", url, string(res.Body))
		return nil, errors.NewAuthError(fmt.Sprintf("login failed with status %d", res.Code), nil).
			WithContext("url", url).
			WithContext("status", res.Code)
	}

	var lr loginResponse
	if err := json.Unmarshal(res.Body, &lr); err != nil {
		utils.ErrorFprintf(c.out, "API (%s) responded with an error\n%s", url, string(res.Body))
		return nil, errors.NewFatalError(fmt.Sprintf("API (%s) returned an undecodable success body", url), err)
	}
	if lr.Token == "" {
		return nil, errors.NewAuthError("login response did not contain a token", nil).WithContext("url", url)
	}

	session := &models.Session{
		StackName: stack.Name,
		BaseURL:   stack.URL,
		CABundle:  caBundle,
		Token:     lr.Token,
		ExpiresAt: tokenExpiry(lr.Token),
	}
	logger.GetLogger().Debug("Authenticated",
		zap.String("stack", stack.Name),
		zap.Time("token_expires_at", session.ExpiresAt))
	return session, nil
}

// tokenExpiry reads the exp claim without verifying the token. The platform
// owns the signature; this is only used for diagnostics.
func tokenExpiry(token string) time.Time {
	parser := new(jwt.Parser)
	parser.SkipClaimsValidation = true

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0)
	}
	return time.Time{}
}
