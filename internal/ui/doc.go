// Package ui implements an interactive plan review using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for applying a sync plan:
//  1. [PlanView] : Browse the planned operations (destructive ones highlighted)
//  2. [ConfirmView] : Confirm execution
//  3. [ApplyView] : Monitor real-time progress updates
//  4. [ResultView] : Display applied operations or the failure that stopped the run
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the engine, providing non-blocking status reporting while the plan runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
