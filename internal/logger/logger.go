package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. The default is a human-readable
// console logger; ROTATOR_ENV=prod switches to structured JSON output.
func New() *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
	}

	if strings.ToLower(os.Getenv("ROTATOR_ENV")) == "prod" {
		opts = append(opts, zap.Fields(zap.Field{
			Key:    "ROTATOR_ENV",
			Type:   zapcore.StringType,
			String: os.Getenv("ROTATOR_ENV"),
		}))
		logger, err = zap.NewProduction(opts...)
	} else {
		logger, err = zap.NewDevelopment(opts...)
	}

	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	return logger.Sugar()
}

func init() {
	logger := New()
	zap.ReplaceGlobals(logger.Desugar())
}
