// Package render defines the renderer contract shared by every output
// surface, the registry that wires renderers together, and the helpers that
// resolve a session snapshot into per-field render states.
package render
