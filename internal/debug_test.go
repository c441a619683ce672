package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEnvironment(t *testing.T) {
	environ := []string{
		"HOME=/root",
		"CONVOLVE2D_PORT=8080",
		"CONVOLVE2D_API_KEY=hunter2",
		"CONVOLVE2D_WORKERS=4",
		"BROKEN",
	}

	t.Run("with prefix", func(t *testing.T) {
		assert.Equal(t, []string{
			"CONVOLVE2D_API_KEY: ********",
			"CONVOLVE2D_PORT: 8080",
			"CONVOLVE2D_WORKERS: 4",
		}, redactEnvironment(environ, []string{"CONVOLVE2D_"}))
	})

	t.Run("no prefix", func(t *testing.T) {
		lines := redactEnvironment(environ, nil)
		assert.Len(t, lines, 4)
		assert.Contains(t, lines, "HOME: /root")
		assert.NotContains(t, lines, "CONVOLVE2D_API_KEY: hunter2")
	})
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version())
}
