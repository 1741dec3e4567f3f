package platform

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"

	"github.com/lsmithpanw/pcs-where-is/internal/models"
)

const gockURL = "https://api.stack.test"

func newGockClient(t *testing.T) *Client {
	t.Helper()
	hc := &http.Client{}
	gock.InterceptClient(hc)
	t.Cleanup(func() {
		gock.Off()
		gock.RestoreClient(hc)
	})
	return NewClient(testRunConfig(), WithHTTPClient(hc), WithOutput(io.Discard))
}

func gockSession() *models.Session {
	return &models.Session{StackName: "app", BaseURL: gockURL, Token: "tok-abc"}
}

func TestEndpoints_Version(t *testing.T) {
	client := newGockClient(t)

	gock.New(gockURL).
		Get(PathVersion).
		MatchHeader(AuthHeader, "tok-abc").
		Reply(200).
		JSON(`"23.4.1"`)

	data, err := client.Version(context.Background(), gockSession())
	require.NoError(t, err)
	assert.Equal(t, `"23.4.1"`, string(data))
	assert.True(t, gock.IsDone())
}

func TestEndpoints_Users(t *testing.T) {
	client := newGockClient(t)

	gock.New(gockURL).
		Post(PathUsers).
		MatchType("json").
		JSON(map[string]string{"customerName": "ACME Corp"}).
		Reply(200).
		JSON([]map[string]interface{}{
			{"displayName": "Road Runner", "email": "rr@acme.test", "timeZone": "UTC", "lastLoginTs": -1},
		})

	data, err := client.Users(context.Background(), gockSession(), "ACME Corp")
	require.NoError(t, err)

	users, err := models.ParseUsers(data)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Road Runner", users[0].DisplayName)
	assert.False(t, users[0].HasLoggedIn())
	assert.True(t, gock.IsDone())
}

func TestEndpoints_LoginWithRetryableStatusIsNotRetried(t *testing.T) {
	client := newGockClient(t)

	gock.New(gockURL).
		Post(PathLogin).
		Times(1).
		Reply(503)

	stack := models.StackConfig{Name: "app", URL: gockURL, AccessKey: "ak", SecretKey: "sk"}
	session, err := client.Login(context.Background(), stack, "")
	assert.Nil(t, session)
	assert.Error(t, err)
	assert.True(t, gock.IsDone())
	assert.False(t, gock.HasUnmatchedRequest())
}

func TestEndpoints_CustomersRetryThenSuccess(t *testing.T) {
	client := newGockClient(t)

	gock.New(gockURL).Get(PathCustomers).Times(1).Reply(429)
	gock.New(gockURL).Get(PathCustomers).Times(1).Reply(200).JSON(`[{"customerName":"ACME Corp"}]`)

	data, err := client.Customers(context.Background(), gockSession())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"customerName":"ACME Corp"}]`, string(data))
	assert.True(t, gock.IsDone())
}
