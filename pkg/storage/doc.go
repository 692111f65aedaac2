// Package storage writes finished exports.
//
// ResultWriter renders a models.ScrapeResult as indented JSON. With an output
// path the document is written to a temporary file in the same directory and
// renamed into place, so an interrupted run never leaves a truncated export
// behind. Without a path the JSON goes to stdout.
//
// Usage:
//
//	w := storage.NewResultWriter(cfg.Output.File, cfg.Output.Indent)
//	if err := w.Write(result); err != nil {
//	    return err
//	}
package storage
