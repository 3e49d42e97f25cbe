// Package ui implements the couple's admin dashboard as a terminal interface
// using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for reviewing the wedding:
//  1. [HouseholdListView] : Browse invited households and their RSVP status
//  2. [HouseholdDetailView] : Inspect per-guest answers, diets and plus-ones
//  3. [SongListView] : Review the song requests guests added to the playlist
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. Data is loaded once from the repositories on startup and refreshed
// on demand with r.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, s, r, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
