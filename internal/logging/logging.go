// Package logging adapts zap to the core.Logger interface.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/core"
)

// Adapter forwards core log calls to a zap SugaredLogger as key/value pairs.
type Adapter struct {
	sugar *zap.SugaredLogger
}

var _ core.Logger = (*Adapter)(nil)

// New wraps logger. A nil logger discards everything.
func New(logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{sugar: logger.Sugar()}
}

// NewProduction builds a JSON production logger, at debug level when verbose is set.
func NewProduction(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// Debug implements core.Logger.
func (a *Adapter) Debug(msg string, args ...any) { a.sugar.Debugw(msg, args...) }

// Info implements core.Logger.
func (a *Adapter) Info(msg string, args ...any) { a.sugar.Infow(msg, args...) }

// Warn implements core.Logger.
func (a *Adapter) Warn(msg string, args ...any) { a.sugar.Warnw(msg, args...) }

// Error implements core.Logger.
func (a *Adapter) Error(msg string, args ...any) { a.sugar.Errorw(msg, args...) }

// Sync flushes buffered entries.
func (a *Adapter) Sync() error { return a.sugar.Sync() }
