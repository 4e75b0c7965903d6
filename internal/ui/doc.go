// Package ui implements an interactive terminal remote using bubbletea's Elm architecture.
//
// The remote has two views:
//  1. [CommandView] : Pick a playback command from a list (or press its shortcut) to dispatch it
//  2. [HistoryView] : Review recently recorded commands
//
// The [Model] implements bubbletea's Init/Update/View pattern. Dispatches and history reads run as
// [tea.Cmd] functions so the view never blocks on the network or the database.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, tab, esc, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
