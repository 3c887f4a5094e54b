package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/corey/tally/internal/domain/automaton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Config: .tally/config.yaml on top of the defaults
// =============================================================================

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, automaton.LowercaseLatin, cfg.Alphabet)
	assert.True(t, cfg.CaseFold)
	assert.False(t, cfg.Strict)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, time.Second, cfg.DBTimeout)
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alphabet: ACGT\nstrict: true\ndb_timeout: 250ms\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", cfg.Alphabet)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.CaseFold, "unset keys keep their defaults")
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.DBTimeout)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alfabet: abc\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alfabet")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty alphabet", "alphabet: \"\"\n", "alphabet"},
		{"duplicate letter", "alphabet: abca\n", "alphabet"},
		{"fold collision", "alphabet: aA\n", "alphabet"},
		{"zero workers", "workers: 0\n", "workers"},
		{"negative timeout", "db_timeout: -1s\n", "db_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := DefaultConfig()
	want.Alphabet = "01"
	want.Workers = 2

	require.NoError(t, SaveConfig(path, want))
	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConfig_NewAlphabet(t *testing.T) {
	cfg := DefaultConfig()
	alpha, err := cfg.NewAlphabet()
	require.NoError(t, err)
	assert.True(t, alpha.CaseFolding())
	assert.True(t, alpha.Contains('Q'))

	cfg.CaseFold = false
	alpha, err = cfg.NewAlphabet()
	require.NoError(t, err)
	assert.False(t, alpha.Contains('Q'))
}
