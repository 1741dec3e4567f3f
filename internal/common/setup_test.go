package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsmithpanw/pcs-where-is/internal/config"
	"github.com/lsmithpanw/pcs-where-is/internal/models"
	"github.com/lsmithpanw/pcs-where-is/internal/platform"
	"github.com/lsmithpanw/pcs-where-is/internal/utils"
	"github.com/lsmithpanw/pcs-where-is/pkg/pcs"
)

func init() {
	color.NoColor = true
}

// newFlakyStack serves a working login and tenant list, but every usage
// request fails with 503
func newFlakyStack(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case platform.PathLogin:
			fmt.Fprint(w, `{"token":"tok"}`)
		case platform.PathCustomers:
			fmt.Fprint(w, `[{"customerName":"ACME Corp","prismaId":10020,"customerId":1}]`)
		case platform.PathUsage:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func loadConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	raw := fmt.Sprintf(`
stacks:
  app:
    url: %s
    access_key: ak
    secret_key: sk
cache:
  directory: %s
retry:
  delay: 1ms
`, url, t.TempDir())

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(raw)))
	cfg, err := config.LoadConfigFrom(v)
	require.NoError(t, err)
	return cfg
}

func search(t *testing.T, setup *CommonSetup) {
	t.Helper()
	opts := pcs.SearchOptions{
		Match:      pcs.MatchSubstring,
		UsageUnits: []string{models.UsageUnitDay, models.UsageUnitMonth},
	}
	formatter := utils.NewFormatter(setup.RunConfig.Format)

	var results []models.QueryResult
	err := setup.Manager.Search(context.Background(), []string{"acme", "nobody"}, opts, func(r models.QueryResult) error {
		results = append(results, r)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, formatter.FormatQueryResults(results, utils.WhereIsLabels, setup.Output))
}

func TestNewCommonSetup_JSONKeepsStdoutClean(t *testing.T) {
	srv := newFlakyStack(t)

	var stdout, stderr bytes.Buffer
	setup, err := newCommonSetup(loadConfig(t, srv.URL), config.Options{Format: "json"}, &stdout, &stderr)
	require.NoError(t, err)
	search(t, setup)

	var decoded []models.QueryResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded), "stdout: %s", stdout.String())
	require.Len(t, decoded, 2)
	assert.Equal(t, "acme", decoded[0].Query)
	assert.Len(t, decoded[0].Matches, 1)
	assert.Empty(t, decoded[1].Matches)

	assert.Contains(t, stderr.String(), "Exceptional API response code 503")
	assert.Contains(t, stderr.String(), "responded with status 503")
	assert.Contains(t, stderr.String(), "Checking:")
}

func TestNewCommonSetup_TableWritesProgressToStdout(t *testing.T) {
	srv := newFlakyStack(t)

	var stdout, stderr bytes.Buffer
	setup, err := newCommonSetup(loadConfig(t, srv.URL), config.Options{Format: "table"}, &stdout, &stderr)
	require.NoError(t, err)
	search(t, setup)

	assert.Empty(t, stderr.String())
	assert.Contains(t, stdout.String(), "Checking: app")
	assert.Contains(t, stdout.String(), "responded with status 503")
	assert.Contains(t, stdout.String(), "acme found on app as ACME Corp")
	assert.Contains(t, stdout.String(), "nobody not found on any configured stack")
}

func TestNewCommonSetup_InvalidFormat(t *testing.T) {
	_, err := newCommonSetup(loadConfig(t, "https://api.example.com"), config.Options{Format: "yaml"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}
