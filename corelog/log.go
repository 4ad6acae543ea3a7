// Package corelog wraps zerolog behind the small surface the verification
// core and its CLI need: leveled global logging with an optional
// panic-on-error hook for tests.
package corelog

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	timeFormat = "2006-01-02T15:04:05.000Z07:00"
)

var (
	log   zerolog.Logger
	logMu sync.RWMutex
)

func init() {
	Init(LevelInfo, os.Stderr)
}

// Init (re)configures the global logger at the given level, writing a
// human-readable console format to out.
func Init(level string, out *os.File) {
	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}
	logger := zerolog.New(writer).With().Timestamp().Caller().Logger()

	switch level {
	case LevelDebug:
		logger = logger.Level(zerolog.DebugLevel)
	case LevelInfo:
		logger = logger.Level(zerolog.InfoLevel)
	case LevelWarn:
		logger = logger.Level(zerolog.WarnLevel)
	case LevelError:
		logger = logger.Level(zerolog.ErrorLevel)
	default:
		panic(fmt.Sprintf("corelog: invalid level %q", level))
	}

	logMu.Lock()
	log = logger
	logMu.Unlock()
}

func getLogger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return log
}

// Logger returns the current global logger, for callers that want to attach
// structured fields inline (corelog.Logger().With().Str(...)).
func Logger() *zerolog.Logger {
	l := getLogger()
	return &l
}

func Debug(args ...any) { getLogger().Debug().Msg(fmt.Sprint(args...)) }
func Info(args ...any)  { getLogger().Info().Msg(fmt.Sprint(args...)) }
func Warn(args ...any)  { getLogger().Warn().Msg(fmt.Sprint(args...)) }
func Error(args ...any) { getLogger().Error().Msg(fmt.Sprint(args...)) }

func Debugf(template string, args ...any) { getLogger().Debug().Msgf(template, args...) }
func Infof(template string, args ...any)  { getLogger().Info().Msgf(template, args...) }
func Warnf(template string, args ...any)  { getLogger().Warn().Msgf(template, args...) }
func Errorf(template string, args ...any) { getLogger().Error().Msgf(template, args...) }

// Errorw logs err alongside msg at error level; Dispatch uses it when a
// wire record fails to decode.
func Errorw(err error, msg string) {
	getLogger().Error().Err(err).Msg(msg)
}

// WithEpoch returns a logger with an "epoch" field attached, for the
// instruction dispatcher to tag every log line it emits while handling one
// instruction against a known epoch.
func WithEpoch(epoch uint64) zerolog.Logger {
	return getLogger().With().Uint64("epoch", epoch).Logger()
}

// WithAccount returns a logger with an "account" field attached, holding
// the hex-encoded account public key. Never pass witness scalars this way;
// only the metadata an operator needs to correlate a rejected instruction
// with an account.
func WithAccount(pk [32]byte) zerolog.Logger {
	return getLogger().With().Hex("account", pk[:]).Logger()
}

// EnablePanicOnError installs a hook that panics on any Error-level log,
// for tests that must fail loudly instead of silently swallowing a verifier
// bug. It returns the previous logger so the caller can restore it.
func EnablePanicOnError() zerolog.Logger {
	prev := getLogger()
	logMu.Lock()
	log = prev.Hook(panicOnErrorHook{})
	logMu.Unlock()
	return prev
}

// RestoreLogger undoes EnablePanicOnError (or any other override).
func RestoreLogger(prev zerolog.Logger) {
	logMu.Lock()
	log = prev
	logMu.Unlock()
}

type panicOnErrorHook struct{}

func (panicOnErrorHook) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	if level >= zerolog.ErrorLevel {
		panic("corelog: error logged: " + msg)
	}
}
