// Package logger provides structured logging for igexport.
//
// It wraps zerolog behind a small interface so components can take a Logger
// and tests can swap in a TestLogger. Console output goes to stderr; stdout
// is left for the JSON export.
//
//	err := logger.Initialize(&cfg.Logging)
//	log := logger.GetLogger().WithField("component", "paginator")
//	log.InfoWithFields("page fetched", map[string]interface{}{
//		"items": 12,
//		"total": 36,
//	})
package logger
