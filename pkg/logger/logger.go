package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger логгер сервиса с printf-style API поверх zap
type Logger struct {
	sugar *zap.SugaredLogger
	file  *os.File
}

// New создает логгер, пишущий в stdout и (если указан) в файл
// level: debug, info, warn, error
func New(filePath string, level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), lvl),
	}

	var file *os.File
	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err = os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), lvl))
	}

	base := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))

	return &Logger{
		sugar: base.Sugar(),
		file:  file,
	}, nil
}

// NewNop возвращает логгер, который ничего не пишет (для тестов и CLI)
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Fatal логирует ошибку и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.sugar.Fatalf(format, v...)
}

// Close сбрасывает буферы и закрывает файл лога
func (l *Logger) Close() error {
	_ = l.sugar.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
