package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/riskattr/internal/app"
	"github.com/newthinker/riskattr/internal/core"
)

func TestParseLoadings(t *testing.T) {
	got, err := parseLoadings([]string{"1=0.8", " 2 = -0.4"})
	require.NoError(t, err)
	assert.Equal(t, []app.Loading{{Asset: 1, Beta: 0.8}, {Asset: 2, Beta: -0.4}}, got)

	for _, bad := range []string{"1", "x=0.5", "1=beta"} {
		_, err := parseLoadings([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestRollingInput(t *testing.T) {
	dependent, independents, window = 100, []int{3, 1}, 24
	in := rollingInput()

	assert.Equal(t, core.AssetID(100), in.Dependent)
	assert.Equal(t, []core.AssetID{3, 1}, in.Independents)
	assert.Equal(t, 24, in.Window)
}

func TestLoadEnv_MissingDefaultIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	envFile = defaultEnvFile
	assert.NoError(t, loadEnv())

	envFile = "missing.env"
	assert.Error(t, loadEnv())
	envFile = defaultEnvFile
}
