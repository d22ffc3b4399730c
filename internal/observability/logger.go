package observability

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/riskibarqy/youth-cup/internal/config"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
	"go.uber.org/zap/zapcore"
)

// auditMessages are shipped to Better Stack regardless of the configured minimum level.
var auditMessages = map[string]struct{}{
	"qualification decided": {},
	"bracket generated":     {},
	"bracket advanced":      {},
	"game result recorded":  {},
	"slot assigned":         {},
	"slot cleared":          {},
	"auto schedule applied": {},
}

// NewLogger builds the process logger: JSON to stdout, teed to Better Stack when enabled.
func NewLogger(cfg config.Config) (*logging.Logger, func(context.Context) error, error) {
	stdout := logging.NewJSONCore(zapcore.Lock(os.Stdout), cfg.LogLevel)
	if !cfg.BetterStackEnabled {
		logger := logging.NewFromCore(stdout)
		logger.Info("betterstack disabled", "reason", "BETTERSTACK_ENABLED=false")
		return logger, func(context.Context) error { return syncLogger(logger) }, nil
	}

	endpoint := normalizeBetterStackEndpoint(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, fmt.Errorf("betterstack endpoint cannot be empty")
	}

	shipper := newBetterStackShipper(endpoint, strings.TrimSpace(cfg.BetterStackToken), cfg.BetterStackTimeout)
	remote := &auditCore{
		Core: logging.NewJSONCore(zapcore.AddSync(shipper), zapcore.DebugLevel),
		min:  cfg.BetterStackMinLevel,
	}

	logger := logging.NewFromCore(zapcore.NewTee(stdout, remote))
	logger.Info("betterstack enabled",
		"endpoint", endpoint,
		"min_level", cfg.BetterStackMinLevel.String(),
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
	)

	return logger, func(ctx context.Context) error {
		if ctx == nil {
			ctx = context.Background()
		}
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
		}
		if err := shipper.Close(ctx); err != nil {
			return fmt.Errorf("drain betterstack queue: %w", err)
		}
		return syncLogger(logger)
	}, nil
}

func syncLogger(logger *logging.Logger) error {
	if err := logger.Sync(); err != nil && !isIgnorableLoggerSyncError(err) {
		return err
	}
	return nil
}

// auditCore passes entries at or above min, plus the tournament audit trail at any level.
type auditCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *auditCore) Enabled(level zapcore.Level) bool {
	return level >= c.min || level >= zapcore.InfoLevel
}

func (c *auditCore) With(fields []zapcore.Field) zapcore.Core {
	return &auditCore{Core: c.Core.With(fields), min: c.min}
}

func (c *auditCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if entry.Level >= c.min {
		return ce.AddCore(entry, c)
	}
	if _, ok := auditMessages[entry.Message]; ok {
		return ce.AddCore(entry, c)
	}
	return ce
}

func isIgnorableLoggerSyncError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") || strings.Contains(msg, "invalid argument")
}
