// Package template defines the renderer-agnostic template engine contract
// plus adapters binding it to concrete engines.
package template
