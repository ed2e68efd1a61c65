package pack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaResourceID names the schema inside the compiler. It is fixed so the
// schema file name never has to be a valid URL.
const schemaResourceID = "inmemory://config-schema"

// ValidateDocument checks raw configuration JSON against the JSON Schema
// stored at schemaPath.
func ValidateDocument(schemaPath string, raw []byte) error {
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	return validate(schema, raw)
}

func validate(schema, raw []byte) error {
	if len(schema) == 0 {
		return fmt.Errorf("schema is empty")
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResourceID, bytes.NewReader(schema)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(schemaResourceID)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
