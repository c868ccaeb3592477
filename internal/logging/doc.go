// Package logging assembles the structured slog loggers used across the
// pipeline stages.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides the component-logger convention so every stage tags
// its lines uniformly (component=ingest, component=worker, ...). A no-op
// logger is available for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so all components
// emit data with the same shape.
package logging
