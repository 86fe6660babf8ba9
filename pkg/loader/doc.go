// Package loader decodes YAML or JSON form documents into form
// configurations, including condition and rule declarations.
package loader
