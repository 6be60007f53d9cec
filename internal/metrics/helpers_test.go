package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNamespace = "dmvault_test"

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	provider, err := NewProvider(testNamespace)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
	return provider
}

// scrape returns the Prometheus exposition text of provider.
func scrape(t *testing.T, provider *Provider) string {
	t.Helper()

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

// assertSample checks for a sample of name whose labels include each of labels.
// The exporter adds otel scope labels, so the match is not anchored.
func assertSample(t *testing.T, output, name, value string, labels ...string) {
	t.Helper()

	pattern := name + `\{`
	for _, label := range labels {
		pattern += `[^}]*` + label
	}
	pattern += `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}
