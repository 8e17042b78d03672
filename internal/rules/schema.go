package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed rules.schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/admitware/scholarship-advisor/internal/rules/rules.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var schema any
	if err := json.Unmarshal(schemaJSON, &schema); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, schema); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	return compiler.Compile(schemaURL)
})

func validateDocument(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile rule schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("rule document rejected by schema: %w", err)
	}
	return nil
}
