package telemetry

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLevelMethodsOnSharedLogger(t *testing.T) {
	Init(Config{Level: "warn", JSON: true, File: filepath.Join(t.TempDir(), "app.log")})

	l := L()
	require.NotNil(t, l)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())

	// Level methods are pointer-receiver; these must work directly on L().
	L().Info().Msg("suppressed at warn")
	L().Error().Msg("logged")
	derived := L().With().Str("module", "telemetry").Logger()
	derived.Warn().Msg("derived")
}

func TestInitFallsBackToInfoOnBadLevel(t *testing.T) {
	Init(Config{Level: "noisy", JSON: true, File: filepath.Join(t.TempDir(), "app.log")})
	assert.Equal(t, zerolog.InfoLevel, L().GetLevel())
}
