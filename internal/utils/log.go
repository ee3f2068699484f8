package utils

import (
	"os"

	"github.com/aos-harness/bootmenu/internal/constants"
	"github.com/rs/zerolog"
)

// Log is the shared logger. It discards everything until SetLogger is called.
var Log = zerolog.Nop()

func SetLogger(debug bool) {
	level := zerolog.InfoLevel

	// Set debug level
	debugFromEnv := os.Getenv(constants.EnvDebug) != ""
	if debug || debugFromEnv {
		level = zerolog.DebugLevel
	}

	Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
