// Package session drives a live form instance: it owns the value bag,
// recomputes field visibility on every edit, and debounces per-field
// validation so rapid edits cost one pass. Stale results from superseded
// edits are detected by sequence number and discarded.
package session
