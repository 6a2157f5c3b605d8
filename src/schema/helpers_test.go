package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jsonschema "github.com/swaggest/jsonschema-go"
)

func TestCreateStringSchema(t *testing.T) {
	schema := CreateStringSchema("The token's mint address")

	require.NotNil(t, schema)
	require.NotNil(t, schema.Description)
	assert.Equal(t, "The token's mint address", *schema.Description)

	require.NotNil(t, schema.Type)
	require.NotNil(t, schema.Type.SimpleTypes)
	assert.Equal(t, jsonschema.SimpleType("string"), *schema.Type.SimpleTypes)
}

func TestCreateBoolSchema(t *testing.T) {
	schema := CreateBoolSchema("Restrict to verified tokens", true)

	require.NotNil(t, schema)
	require.NotNil(t, schema.Description)
	assert.Equal(t, "Restrict to verified tokens", *schema.Description)

	require.NotNil(t, schema.Type)
	require.NotNil(t, schema.Type.SimpleTypes)
	assert.Equal(t, jsonschema.SimpleType("boolean"), *schema.Type.SimpleTypes)

	require.NotNil(t, schema.Default)
	assert.Equal(t, true, *schema.Default)
}

func TestCreateIntSchema(t *testing.T) {
	schema := CreateIntSchema("Maximum results to return", 10)

	require.NotNil(t, schema)
	require.NotNil(t, schema.Description)
	assert.Equal(t, "Maximum results to return", *schema.Description)

	require.NotNil(t, schema.Type)
	require.NotNil(t, schema.Type.SimpleTypes)
	assert.Equal(t, jsonschema.SimpleType("integer"), *schema.Type.SimpleTypes)

	require.NotNil(t, schema.Default)
	assert.Equal(t, 10, *schema.Default)
}

func TestCreateObjectSchema(t *testing.T) {
	properties := map[string]*jsonschema.Schema{
		"address": CreateStringSchema("The token's mint address"),
		"limit":   CreateIntSchema("Maximum results to return", 10),
	}

	schema := CreateObjectSchema(properties, []string{"address"})

	require.NotNil(t, schema)
	require.NotNil(t, schema.Type)
	require.NotNil(t, schema.Type.SimpleTypes)
	assert.Equal(t, jsonschema.SimpleType("object"), *schema.Type.SimpleTypes)

	assert.Len(t, schema.Properties, 2)
	assert.Equal(t, []string{"address"}, schema.Required)
}

func TestCreateStringSchemaEnum(t *testing.T) {
	schema := CreateStringSchemaEnum("Time range for the query", []string{"1h", "1d", "7d", "30d"})

	require.NotNil(t, schema)
	require.NotNil(t, schema.Type)
	require.NotNil(t, schema.Type.SimpleTypes)
	assert.Equal(t, jsonschema.SimpleType("string"), *schema.Type.SimpleTypes)

	require.Len(t, schema.Enum, 4)
	assert.Equal(t, "1d", schema.Enum[1])
}
