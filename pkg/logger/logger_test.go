package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBuildsUsableLogger(t *testing.T) {
	log := New(Opts{Env: "development"})
	require.NotNil(t, log)

	// Must not panic on any level or on the fx.Printer surface.
	log.Debug("debug", "k", "v")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
	log.Printf("printf %s", "arg")

	scoped := log.WithComponent("test")
	require.NotNil(t, scoped)
	scoped.Info("scoped")
}
