// Package openapi derives form configurations from OpenAPI 3 documents: one
// form per operation, one field per request body property. Conversion is
// deterministic, so regenerating from the same document yields the same form.
package openapi
