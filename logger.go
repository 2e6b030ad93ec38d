package tilecomp

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false, so disabled log
// calls never build their attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the package logger used by compositors without their own
// SoftwareCompositorOptions.Logger, and by the scene package. The default
// logger is silent; nil restores it.
//
// Levels:
//   - [slog.LevelDebug]: tiling passes, frames, snapshots, layers, cleanup
//   - [slog.LevelWarn]: surfaces that fail to lock
//
// Combiners and scanline loops never log.
//
//	tilecomp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the package logger. It is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// log returns the compositor's logger, tagged with its tile size.
func (c *SoftwareCompositor) log() *slog.Logger {
	l := c.opts.Logger
	if l == nil {
		l = Logger()
	}
	return l.With("tile_size", c.opts.TileSize)
}

// LogValue groups the counters so a Stats can be logged as one attribute.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Int("layers", s.Layers),
		slog.Int("tiles", s.Tiles),
		slog.Int("rects", s.Rects),
		slog.Int("clipped", s.Clipped),
		slog.Int("pixels", s.Pixels),
		slog.Int("live_tiles", s.LiveTiles),
	)
}
