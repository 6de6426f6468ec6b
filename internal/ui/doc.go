// Package ui renders synchronization results and the run journal for the terminal with lipgloss.
//
//   - [RenderResult] : one styled line per [reconcile.Result], colored by outcome
//   - [RenderRuns] : a bordered table of journaled sync runs
//
// Styles come from a [Palette]; the package-level palette is used by the render helpers.
package ui
