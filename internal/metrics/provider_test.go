package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("dmvault")
	require.NoError(t, err)

	assert.Equal(t, "dmvault", provider.Namespace())
	assert.NotNil(t, provider.MeterProvider())

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestProvider_HandlerExposesRecordedMetrics(t *testing.T) {
	provider := newTestProvider(t)

	business, err := NewBusinessMetrics(provider.MeterProvider(), provider.Namespace())
	require.NoError(t, err)
	business.RecordOperation(context.Background(), "messaging", "message_append", StatusSuccess)

	output := scrape(t, provider)
	assert.Contains(t, output, testNamespace+"_operations_total")
	assert.Contains(t, output, "go_goroutines")
	assert.Contains(t, output, testNamespace+"_process_")
}

func TestProvider_ShutdownZeroValue(t *testing.T) {
	var nilProvider *Provider
	assert.NoError(t, nilProvider.Shutdown(context.Background()))
	assert.NoError(t, (&Provider{}).Shutdown(context.Background()))
}
