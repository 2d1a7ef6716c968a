package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide sugared logger. Initialize must be called
// before the first use.
var Logger *zap.SugaredLogger

func Initialize(debug bool) {
	var zapConfig zap.Config
	if debug {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	logger, err := zapConfig.Build(zap.AddCallerSkip(0))
	if err != nil {
		panic(err)
	}
	Logger = logger.Sugar()
}

func Release() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
