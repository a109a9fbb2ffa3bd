package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// CategorySchema returns the JSON Schema of a CategoryResponse on the wire:
// an object with at most the members id and name, each optional and nullable.
// id must fit in an int64.
func CategorySchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"id": map[string]any{
				"type":    []string{"integer", "null"},
				"minimum": int64(math.MinInt64),
				"maximum": int64(math.MaxInt64),
			},
			"name": map[string]any{"type": []string{"string", "null"}},
		},
	}
}

// CategoryListSchema returns the schema of a JSON array of CategoryResponse.
func CategoryListSchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": CategorySchema(),
	}
}

var (
	compileOnce   sync.Once
	recordSchema  *jsonschema.Schema
	listSchema    *jsonschema.Schema
	compileSchema error
)

func compiled() (*jsonschema.Schema, *jsonschema.Schema, error) {
	compileOnce.Do(func() {
		recordSchema, compileSchema = compile("category.json", CategorySchema())
		if compileSchema != nil {
			return
		}
		listSchema, compileSchema = compile("category_list.json", CategoryListSchema())
	})
	return recordSchema, listSchema, compileSchema
}

func compile(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateCategoryJSON checks that data is a single CategoryResponse document.
func ValidateCategoryJSON(data []byte) error {
	record, _, err := compiled()
	if err != nil {
		return err
	}
	return validate(record, data)
}

// ValidateCategoryListJSON checks that data is an array of CategoryResponse documents.
func ValidateCategoryListJSON(data []byte) error {
	_, list, err := compiled()
	if err != nil {
		return err
	}
	return validate(list, data)
}

func validate(schema *jsonschema.Schema, data []byte) error {
	// Numbers stay json.Number so the int64 bounds compare exactly.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
