package main

import (
	"runtime"
	"testing"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildApp(t *testing.T) {
	app := buildApp()

	names := []string{}
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"version", "service", "admin"}, names)

	require.NoError(t, app.Run([]string{"yoga-studio", "--level", "debug", "version"}))
	assert.Equal(t, level.Debug, grip.GetSender().Level().Threshold)
	assert.GreaterOrEqual(t, runtime.GOMAXPROCS(0), 1)
}
