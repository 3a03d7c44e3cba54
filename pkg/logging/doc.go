// Package logging provides structured logging configuration for routed.
//
// It wraps log/slog so every component logs the same way:
//
//	logger, closeLog, err := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
//
//	logger.Info("listening", "addr", ln.Addr())
//
// Components accept a *slog.Logger through an option and fall back to Nop().
// When Config.File is set, records are also appended to that file as JSON
// through a MultiHandler.
package logging
