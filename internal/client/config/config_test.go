package config_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesapp/internal/client/config"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, env := range []string{"NOTESCTL_API_URL", "NOTESCTL_TIMEOUT"} {
			t.Setenv(env, "")
			require.NoError(t, os.Unsetenv(env))
		}

		cfg, err := config.Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5000/api", cfg.APIURL)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("NOTESCTL_API_URL", "http://notes.internal/api")
		t.Setenv("NOTESCTL_TIMEOUT", "3s")

		cfg, err := config.Load(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "http://notes.internal/api", cfg.APIURL)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
	})
}
