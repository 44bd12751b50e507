package kafka

// Logger interface API for log.Logger.
type Logger interface {
	Printf(string, ...any)
}

// LoggerFunc is a bridge between Logger and any third party logger with the
// same signature.
//
// Usage:
//
//	l := zerolog.New(os.Stderr)
//	c, err := kafka.NewCodec(kafka.Config{
//	  Logger:      kafka.LoggerFunc(func(msg string, args ...any) { l.Info().Msgf(msg, args...) }),
//	  ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) { l.Error().Msgf(msg, args...) }),
//	})
type LoggerFunc func(string, ...any)

func (f LoggerFunc) Printf(msg string, args ...any) { f(msg, args...) }
