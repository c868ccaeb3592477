// Package journal persists one summary row per completed pipeline run in
// SQLite.
//
// The journal is history, not state: nothing in-flight is stored and the
// pipeline never reads it back during a run. Schema changes bump
// schemaVersion; an old database must be deleted to adopt a new schema.
package journal
