package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed customization.schema.json
var customizationSchema []byte

// ValidateAgainstSchema validates customization JSON bytes against the
// customization JSON schema
func ValidateAgainstSchema(jsonBytes []byte) error {
	if len(jsonBytes) == 0 {
		return errors.New("empty JSON input")
	}

	schemaLoader := gojsonschema.NewBytesLoader(customizationSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonBytes)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
	}

	return nil
}
