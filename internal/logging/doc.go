// Package logging configures the generator's structured logging on top
// of log/slog: a console handler for interactive runs, a JSON handler
// for machine consumption, and typed attribute helpers shared by every
// component.
package logging
