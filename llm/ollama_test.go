package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOllama(t *testing.T) {
	t.Run("Valid call with defaults", func(t *testing.T) {
		client, err := NewOllama("gemma3:1b", "")

		require.NoError(t, err)
		require.NotNil(t, client)
		assert.Equal(t, "gemma3:1b", client.model)
		assert.Equal(t, 0.0, client.temperature)
	})

	t.Run("Invalid base URL returns error", func(t *testing.T) {
		_, err := NewOllama("gemma3:1b", "://not-a-url")

		assert.Error(t, err)
	})

	t.Run("SetTemperature overrides default", func(t *testing.T) {
		client, err := NewOllama("gemma3:1b", "http://localhost:11434")
		require.NoError(t, err)

		client.SetTemperature(0.7)

		assert.Equal(t, 0.7, client.temperature)
	})
}
