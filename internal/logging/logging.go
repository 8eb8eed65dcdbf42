package logging

import (
	"go.uber.org/zap"
)

var logger = zap.NewNop().Sugar()

// Init builds the process-wide logger. Debug mode uses the development
// config with full output; production logs at info and above.
func Init(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Encoding = "console"
	l, err := cfg.Build()
	if err != nil {
		panic("logger init: " + err.Error())
	}
	logger = l.Sugar()
}

// L returns the current process logger.
func L() *zap.SugaredLogger { return logger }

// Named returns a child logger with the given name.
func Named(name string) *zap.SugaredLogger { return logger.Named(name) }
