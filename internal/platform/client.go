package platform

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/lsmithpanw/pcs-where-is/internal/config"
	"github.com/lsmithpanw/pcs-where-is/internal/errors"
)

// AuthHeader carries the session token on every authenticated call
const AuthHeader = "x-redlock-auth"

// Request - one call against the platform API
type Request struct {
	Method   string
	URL      string
	Token    string
	CABundle string
	Body     []byte
}

// Response - the raw result of one HTTP attempt
type Response struct {
	Code int
	Body []byte
}

// OK reports whether the status is 2xx
func (r *Response) OK() bool {
	return r.Code >= 200 && r.Code < 300
}

// Client talks to every configured stack. Calls are strictly sequential.
type Client struct {
	debug  bool
	retry  config.RetryConfig
	out    io.Writer
	mu     sync.Mutex
	http   map[string]*http.Client
	custom *http.Client
}

// ClientOpt configures a Client
type ClientOpt func(*Client)

// WithHTTPClient uses hc for every call regardless of CA bundle
func WithHTTPClient(hc *http.Client) ClientOpt {
	return func(c *Client) {
		c.custom = hc
	}
}

// WithOutput sets where operator-facing failure reports are written
func WithOutput(w io.Writer) ClientOpt {
	return func(c *Client) {
		c.out = w
	}
}

// NewClient creates a platform client for one run
func NewClient(rc config.RunConfig, options ...ClientOpt) *Client {
	c := &Client{
		debug: rc.Debug,
		retry: rc.Retry,
		out:   os.Stdout,
		http:  make(map[string]*http.Client),
	}
	if len(c.retry.Statuses) == 0 {
		c.retry.Statuses = config.DefaultRetryStatuses
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// httpClient returns the HTTP client trusting caBundle, building it on
// first use. An empty bundle means the system trust store.
func (c *Client) httpClient(caBundle string) (*http.Client, error) {
	if c.custom != nil {
		return c.custom, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if hc, ok := c.http[caBundle]; ok {
		return hc, nil
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if caBundle != "" {
		pool, err := loadCABundle(caBundle)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = &tls.Config{
			RootCAs:    pool,
			MinVersion: tls.VersionTLS12,
		}
	}

	hc := &http.Client{Transport: transport}
	c.http[caBundle] = hc
	return hc, nil
}

func loadCABundle(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("unable to read CA bundle %s", path), err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.NewConfigError(fmt.Sprintf("no certificates found in CA bundle %s", path), nil)
	}
	return pool, nil
}

// send performs a single HTTP attempt
func (c *Client) send(ctx context.Context, request Request) (*Response, error) {
	hc, err := c.httpClient(request.CABundle)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, request.Method, request.URL, bytes.NewReader(request.Body))
	if err != nil {
		return nil, errors.NewInternalError("unable to build request", err).WithContext("url", request.URL)
	}
	req.Header.Set("Content-Type", "application/json")
	if request.Token != "" {
		req.Header.Set(AuthHeader, request.Token)
	}

	res, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return &Response{Code: res.StatusCode, Body: body}, nil
}

// sleepFor is how long the executor pauses before each retry
func (c *Client) sleepFor() time.Duration {
	if c.retry.Delay < 0 {
		return 0
	}
	return c.retry.Delay
}
