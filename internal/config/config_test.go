package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 300*time.Millisecond, cfg.ConflictDebounce)
	assert.Equal(t, "08:00", cfg.PlanningDayStart)
	assert.Equal(t, "20:00", cfg.PlanningDayEnd)
	assert.Equal(t, 30, cfg.SlotMinutes)
	assert.Nil(t, cfg.CORSAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("CONFLICT_DEBOUNCE", "150ms")
	t.Setenv("SLOT_MINUTES", "15")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://leregarddemanon.fr, https://admin.leregarddemanon.fr")

	cfg := Load()

	assert.Equal(t, "9001", cfg.Port)
	assert.Equal(t, 150*time.Millisecond, cfg.ConflictDebounce)
	assert.Equal(t, 15, cfg.SlotMinutes)
	assert.Equal(t, []string{"https://leregarddemanon.fr", "https://admin.leregarddemanon.fr"}, cfg.CORSAllowedOrigins)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SLOT_MINUTES", "not-a-number")
	t.Setenv("API_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 30, cfg.SlotMinutes)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
}
