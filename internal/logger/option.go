package logger

import "go.uber.org/zap"

// settings collects optional logger construction parameters.
type settings struct {
	// runLogFile is the path of the plain-text run log; empty disables the file sink.
	runLogFile string
	// zapOptions are passed through to zap.New.
	zapOptions []zap.Option
}

// Option customizes logger construction.
type Option func(*settings)

// WithRunLogFile enables the plain-text run log file sink at the given path.
func WithRunLogFile(path string) Option {
	return func(s *settings) {
		s.runLogFile = path
	}
}

// WithZapOptions forwards raw zap options to the underlying logger.
func WithZapOptions(options ...zap.Option) Option {
	return func(s *settings) {
		s.zapOptions = append(s.zapOptions, options...)
	}
}
