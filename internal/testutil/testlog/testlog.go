package testlog

import (
	"testing"

	"github.com/danmuck/surveyctl/internal/logging"
	"github.com/rs/zerolog"
)

// Start configures test logging and returns a logger bound to t.
func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	logging.ConfigureTests()
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Str("test", t.Name()).Logger()
	logger.Debug().Msg("start")
	return logger
}
