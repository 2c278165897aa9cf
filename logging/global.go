package logging

import (
	"io"
	"log"
	"os"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileOptions controls the optional rotated JSON log file.
type LogFileOptions struct {
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
}

func (o *LogFileOptions) writer() io.Writer {
	return &lumberjack.Logger{
		Filename:   o.FilePath,
		MaxSize:    o.MaxSize,
		MaxBackups: o.MaxBackups,
		MaxAge:     28, // days
		Compress:   false,
	}
}

func parseConfigLevel(levelName string) (zapcore.Level, error) {
	return zapcore.ParseLevel(levelName)
}

func parseConfigLevelEncoder(levelEncoderName string) zapcore.LevelEncoder {
	switch levelEncoderName {
	case "capitalColor":
		return zapcore.CapitalColorLevelEncoder
	case "capital":
		return zapcore.CapitalLevelEncoder
	case "lowercase":
		return zapcore.LowercaseLevelEncoder
	default:
		return zapcore.CapitalLevelEncoder
	}
}

func encoderConfig(levelEncoder zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:  "message",
		LevelKey:    "level",
		EncodeLevel: levelEncoder,
		TimeKey:     "time",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.UTC().Format("2006-01-02T15:04:05.000000Z"))
		},
		CallerKey:        "caller",
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		NameKey:          "name",
		ConsoleSeparator: "\t",
	}
}

// SetGlobalLogger replaces zap's global logger with a console core and, when
// fileOptions names a file, a tee'd JSON core writing every level to it.
// Debug entries of loggers whose name contains one of excludeDebug are dropped
// from the console.
func SetGlobalLogger(levelName, levelEncoderName, logFormat string, fileOptions *LogFileOptions, excludeDebug ...string) error {
	level, err := parseConfigLevel(levelName)
	if err != nil {
		return err
	}

	consoleEncoder, err := newDebugServicesEncoder(logFormat, encoderConfig(parseConfigLevelEncoder(levelEncoderName)), excludeDebug)
	if err != nil {
		return err
	}
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.NewAtomicLevelAt(level))

	if fileOptions == nil || fileOptions.FilePath == "" {
		zap.ReplaceGlobals(zap.New(consoleCore))
		return nil
	}

	allLevels := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return true // debug log returns all logs
	})
	dev := zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig())
	fileCore := zapcore.NewCore(dev, zapcore.AddSync(fileOptions.writer()), allLevels)

	zap.ReplaceGlobals(zap.New(zapcore.NewTee(consoleCore, fileCore)))
	return nil
}

func CapturePanic(logger *zap.Logger) {
	if r := recover(); r != nil {
		defer func() {
			if err := logger.Sync(); err != nil {
				log.Println("failed to sync zap.Logger", err)
			}
		}()
		stackTrace := string(debug.Stack())
		logger.Panic("Recovered from panic", zap.Any("panic", r), zap.String("stackTrace", stackTrace))
	}
}
