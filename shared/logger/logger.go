package logger

import (
	"io"
	"os"
	"time"

	"hotel/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

const defaultLevel = zerolog.InfoLevel

// consoleEnvs get human readable output. Everything else logs JSON lines.
var consoleEnvs = map[string]bool{
	"":            true,
	"local":       true,
	"development": true,
}

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// InitLogger installs a console logger until the configuration is known.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = zerolog.New(writerFor("")).With().Timestamp().Logger()
}

// Configure switches output format by environment, tags every line with the app name and applies
// the configured level.
func Configure(cfg *config.Config) {
	log.Logger = zerolog.New(writerFor(cfg.Server.Env)).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Logger()

	SetLogLevel(cfg)
}

func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = defaultLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Debug().Str("level", level.String()).Msg("log level set")
}

// ErrorWithStack logs err with the stack of the caller.
func ErrorWithStack(err error) {
	if err == nil {
		return
	}

	log.Error().Stack().Err(errors.WithStack(err)).Msg(err.Error())
}

func writerFor(env string) io.Writer {
	if consoleEnvs[env] {
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return os.Stdout
}
