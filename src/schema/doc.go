// Package schema provides helper functions for creating JSON Schema definitions.
//
// Tool inputs and the structured-generation calls (argument repair,
// conversation titles) describe their shapes as JSON Schema. This package
// provides type-safe convenience functions for the common patterns.
//
// Example usage:
//
//	import "github.com/vybelabs/vybe/src/schema"
//
//	// Schema for a token lookup argument
//	addressSchema := schema.CreateStringSchema("The token's mint address")
//
//	// Object schema with properties
//	querySchema := schema.CreateObjectSchema(map[string]*jsonschema.Schema{
//		"address":  schema.CreateStringSchema("The token's mint address"),
//		"limit":    schema.CreateIntSchema("Maximum results to return", 10),
//		"verified": schema.CreateBoolSchema("Restrict to verified tokens", true),
//	}, []string{"address"}) // address is required
package schema
