// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp batch identifiers, stage names, and shot
//     names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (skippable row, batch abort, tracking database unavailable).
//
// Use these helpers when wiring new stage logic so operational behaviour
// stays uniform across the pipeline.
package services
