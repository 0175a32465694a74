package graphql

import _ "embed"

//go:embed schema.graphqls
var schemaSDL string

// Schema returns the SDL served at /graphql. Fields added by extension
// packages go through _extension instead of new schema types.
func Schema() string {
	return schemaSDL
}
