package mongo

import (
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// LogSink routes driver logs into zap.
type LogSink struct {
	logger *zap.Logger
}

var _ options.LogSink = (*LogSink)(nil)

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.With(zap.String("component", "mongo-driver"))}
}

func fields(keysAndValues []interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)

		if !ok {
			continue
		}

		out = append(out, zap.Any(key, keysAndValues[i+1]))
	}

	return out
}

func (s *LogSink) Info(level int, message string, keysAndValues ...interface{}) {
	if level > int(options.LogLevelInfo) {
		s.logger.Debug(message, fields(keysAndValues)...)
		return
	}

	s.logger.Info(message, fields(keysAndValues)...)
}

func (s *LogSink) Error(err error, message string, keysAndValues ...interface{}) {
	s.logger.Error(message, append(fields(keysAndValues), zap.Error(err))...)
}
