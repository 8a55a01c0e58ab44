package testhelper

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

// init silences zerolog in test binaries unless SLEEPSURVEY_TEST_LOG is set.
func init() {
	if testing.Testing() && os.Getenv("SLEEPSURVEY_TEST_LOG") == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}

// Logger returns a logger for code under test. It writes to the test log when
// SLEEPSURVEY_TEST_LOG is set and discards everything otherwise.
func Logger(t testing.TB) zerolog.Logger {
	t.Helper()
	if os.Getenv("SLEEPSURVEY_TEST_LOG") == "" {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
}

// EnableLogging lifts the global level for the rest of the test so output
// written through per-logger levels shows up.
func EnableLogging(t testing.TB) {
	t.Helper()
	t.Setenv("SLEEPSURVEY_TEST_LOG", "1")
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
}
