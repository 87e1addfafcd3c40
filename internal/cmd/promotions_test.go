package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"gadgetstore/internal/app"
)

func TestPromotionsTick_RefusesWithoutRedis(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("DB_DSN", "file:tick-guard?mode=memory&cache=shared")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--config", t.TempDir(), "promotions", "tick", "--step", "5"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	assert.ErrorIs(t, err, app.ErrNoSharedCache)
	assert.NotContains(t, out.String(), "decremented")
}
