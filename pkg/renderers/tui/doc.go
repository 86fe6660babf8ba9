// Package tui renders a form as an interactive terminal session built on
// survey prompts. Visibility is re-evaluated after every answer, so
// conditional fields appear and disappear mid-flow exactly as they would in
// a browser.
package tui
