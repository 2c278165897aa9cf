package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var emptyBuffers = buffer.NewPool()

type debugServicesEncoder struct {
	zapcore.Encoder
	excludeLoggers []string
}

func newDebugServicesEncoder(logFormat string, config zapcore.EncoderConfig, excludeLoggers []string) (zapcore.Encoder, error) {
	var enc zapcore.Encoder
	switch logFormat {
	case "console", "":
		enc = zapcore.NewConsoleEncoder(config)
	case "json":
		enc = zapcore.NewJSONEncoder(config)
	default:
		return nil, fmt.Errorf("invalid log format: %s", logFormat)
	}

	if len(excludeLoggers) == 0 {
		return enc, nil
	}
	return debugServicesEncoder{
		Encoder:        enc,
		excludeLoggers: excludeLoggers,
	}, nil
}

func (d debugServicesEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	if entry.Level == zap.DebugLevel {
		for _, loggerNameSubstring := range d.excludeLoggers {
			if strings.Contains(entry.LoggerName, loggerNameSubstring) {
				return emptyBuffers.Get(), nil
			}
		}
	}

	return d.Encoder.EncodeEntry(entry, fields)
}

func (d debugServicesEncoder) Clone() zapcore.Encoder {
	return debugServicesEncoder{
		Encoder:        d.Encoder.Clone(),
		excludeLoggers: d.excludeLoggers,
	}
}
