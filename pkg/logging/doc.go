// Package logging provides structured logging configuration for harview.
//
// It wraps log/slog so every component logs the same way. Console output is
// text or JSON; an optional log file receives JSON records and is rotated by
// size.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	    File:   "harview.log",
//	})
//
//	logger.Info("capture processed", "count", 12, "total", 40)
//
// Components accept a *slog.Logger through an option. Without one they use
// logging.Nop().
package logging
