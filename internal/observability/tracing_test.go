package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_DefaultAgentHost(t *testing.T) {
	t.Parallel()

	cfg := Config{
		AgentHost:   "", // Empty should use default
		Environment: "test",
		ServiceName: "test-service",
	}

	ctx := context.Background()
	shutdown, err := Setup(ctx, cfg)

	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(ctx))
}

func TestSetup_CustomAgentHost(t *testing.T) {
	t.Parallel()

	cfg := Config{
		AgentHost:   "custom-host:4318",
		Environment: "staging",
		ServiceName: "custom-service",
	}

	ctx := context.Background()
	shutdown, err := Setup(ctx, cfg)

	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(ctx))
}

func TestSetup_AgentUnavailable_GracefulDegradation(t *testing.T) {
	t.Parallel()

	// Point at a non-existent agent; spans will fail to export silently.
	cfg := Config{
		AgentHost:   "localhost:9",
		Environment: "test",
		ServiceName: "graceful-test",
	}

	ctx := context.Background()
	shutdown, err := Setup(ctx, cfg)

	require.NoError(t, err)
	require.NotNil(t, shutdown)
}

func TestSetup_EmptyConfig(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup(context.Background(), Config{})

	require.NoError(t, err)
	require.NotNil(t, shutdown)
}

func TestDefaultAgentHost_Value(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "localhost:4318", DefaultAgentHost)
}
