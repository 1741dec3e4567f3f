package platform

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lsmithpanw/pcs-where-is/internal/errors"
	"github.com/lsmithpanw/pcs-where-is/internal/logger"
	"github.com/lsmithpanw/pcs-where-is/internal/utils"
)

var errNotYetSuccessful = stderrors.New("response not successful yet")

// retryable reports whether code starts the retry loop
func (c *Client) retryable(code int) bool {
	for _, s := range c.retry.Statuses {
		if s == code {
			return true
		}
	}
	return false
}

// Execute issues one authenticated call.
//
// A first response in the retry status set is followed by up to
// retry.Attempts further attempts, each after a fixed pause, stopping at the
// first 2xx. Outcomes:
//   - 2xx with a JSON body: the body
//   - 2xx with anything else: a fatal error
//   - 403, any other failure status, or a transport error: (nil, nil)
//   - cancelled context: the context error
func (c *Client) Execute(ctx context.Context, request Request) (json.RawMessage, error) {
	reqID := uuid.New().String()
	startTime := time.Now()

	var res *Response
	attempts := 0
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.sleepFor()), uint64(c.retry.Attempts)),
		ctx,
	)

	operation := func() error {
		attempts++
		r, err := c.send(ctx, request)
		if err != nil {
			return backoff.Permanent(err)
		}
		res = r
		if res.OK() {
			return nil
		}
		if attempts == 1 {
			if !c.retryable(res.Code) {
				return nil
			}
			utils.WarningFprintf(c.out, "Exceptional API response code %d received from %s. Waiting and then retrying", res.Code, request.URL)
		}
		return errNotYetSuccessful
	}

	err := backoff.Retry(operation, policy)

	if c.debug {
		fields := []zap.Field{
			zap.String("id", reqID),
			zap.String("method", request.Method),
			zap.String("url", request.URL),
			zap.ByteString("body", request.Body),
			zap.Int("attempts", attempts),
			zap.Int64("duration(ms)", time.Since(startTime).Milliseconds()),
		}
		if res != nil {
			fields = append(fields, zap.Int("status", res.Code))
		}
		logger.GetLogger().Debug("request", fields...)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil && !stderrors.Is(err, errNotYetSuccessful) {
		if errors.IsType(err, errors.ErrorTypeConfig) {
			return nil, err
		}
		utils.ErrorFprintf(c.out, "API (%s) request failed: %v", request.URL, err)
		return nil, nil
	}

	if res.Code == http.StatusForbidden {
		utils.ErrorFprintf(c.out, "API (%s) responded with 403 Unauthorized: check that credentials are valid and are authorized to access the API.", request.URL)
		return nil, nil
	}

	if !res.OK() {
		utils.ErrorFprintf(c.out, "API (%s) responded with status %d after %d attempt(s)", request.URL, res.Code, attempts)
		return nil, nil
	}

	if !json.Valid(res.Body) {
		utils.ErrorFprintf(c.out, "API (%s) responded with an error\n%s", request.URL, string(res.Body))
		return nil, errors.NewFatalError(fmt.Sprintf("API (%s) returned an undecodable success body", request.URL), nil).
			WithContext("url", request.URL).
			WithContext("status", res.Code)
	}

	return json.RawMessage(res.Body), nil
}
