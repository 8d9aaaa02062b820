package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	total := 0.0
	for _, w := range cfg.Matching.Weights {
		total += w
	}
	assert.Equal(t, 100.0, total)
	assert.Equal(t, 0.22, cfg.Financial.TargetMargin)
	assert.Equal(t, 0.04, cfg.Financial.SurvivalFloor)
	assert.Equal(t, "Z-01", cfg.Logistics.DefaultZoneCode)
}

func TestValidate_Rejects(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{
			name:   "floor above target",
			mutate: func(c *Config) { c.Financial.SurvivalFloor = 0.30 },
			errMsg: "SurvivalFloor",
		},
		{
			name:   "weights do not sum to 100",
			mutate: func(c *Config) { c.Matching.Weights["sheath"] = 10 },
			errMsg: "matching weights must sum to 100, got 105",
		},
		{
			name: "unknown weight",
			mutate: func(c *Config) {
				c.Matching.Weights["colour"] = 0
			},
			errMsg: `unknown matching weight "colour"`,
		},
		{
			name:   "zero drum size",
			mutate: func(c *Config) { c.Packaging.DrumLotSize = 0 },
			errMsg: "DrumLotSize",
		},
		{
			name:   "zero urgency window",
			mutate: func(c *Config) { c.Priority.UrgencyWindowDays = 0 },
			errMsg: "UrgencyWindowDays",
		},
		{
			name: "no win probability weights",
			mutate: func(c *Config) {
				c.Priority.FitWeight = 0
				c.Priority.RelationshipWeight = 0
			},
			errMsg: "cannot both be zero",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestClone_DoesNotShareWeights(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Matching.Weights["sheath"] = 99

	assert.Equal(t, 5.0, cfg.Matching.Weights["sheath"])
}

func TestFlatten(t *testing.T) {
	flat, err := Default().Flatten()
	require.NoError(t, err)

	assert.Equal(t, 0.22, flat["financial.target_margin"])
	assert.Equal(t, "Z-01", flat["logistics.default_zone_code"])
	assert.Equal(t, 90, flat["priority.urgency_window_days"])
	assert.Contains(t, flat, "matching.weights")

	keys := Keys(flat)
	assert.Equal(t, "competition.aggressive_concession", keys[0])
}
