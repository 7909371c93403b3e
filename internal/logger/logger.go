package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nbilal/homepin/internal/config"
)

// New builds a file-backed zap logger. The TUI owns the terminal, so log
// output never goes to stdout/stderr; falls back to a nop logger when the
// log file cannot be opened.
func New(cfg *config.Config) *zap.Logger {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return zap.NewNop()
	}

	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{cfg.LogPath()}
	zapCfg.ErrorOutputPaths = []string{cfg.LogPath()}

	l, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
