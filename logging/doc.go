// Package logging provides the structured logger used across iongraph's
// layout pipeline.
//
// It wraps log/slog with a small Config for destination selection (stderr,
// an optional file, or both) and a Level type matching the pipeline's own
// severity vocabulary. The layout package uses Warn to report a failed
// post-straightening overlap check, which config.Params.StrictMode can
// instead escalate to a panic.
package logging
