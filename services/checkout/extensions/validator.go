// Package extensions validates the optional extension objects of a checkout
// request body against their JSON schemas.
package extensions

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var extensionNames = []string{"fulfillment", "discounts"}

type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewValidator() (*Validator, error) {
	v := &Validator{
		schemas: map[string]*gojsonschema.Schema{},
	}
	for _, name := range extensionNames {
		raw, err := schemaFiles.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("error reading schema of %s: %w", name, err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("error compiling schema of %s: %w", name, err)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

// Validate checks every extension present in the request body. Absent or null
// extensions are fine. Violations on id fields are ignored because ids are
// assigned by the server.
func (v *Validator) Validate(body []byte) error {
	fields := map[string]json.RawMessage{}
	err := json.Unmarshal(body, &fields)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("request body must be a JSON object: %w", err))
	}
	return v.ValidateEach(fields)
}

// ValidateEach checks extensions that were already split off the request body,
// keyed by extension name. Unknown names are skipped.
func (v *Validator) ValidateEach(fields map[string]json.RawMessage) error {
	violations := []string{}
	for _, name := range extensionNames {
		raw, present := fields[name]
		if !present || len(raw) == 0 || string(raw) == "null" {
			continue
		}

		result, err := v.schemas[name].Validate(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("invalid %s extension: %w", name, err))
		}
		for _, desc := range result.Errors() {
			if isIDViolation(desc) {
				continue
			}
			violations = append(violations, fmt.Sprintf("%s.%s: %s", name, desc.Field(), desc.Description()))
		}
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		return myerrors.NewInvalidInputErrorf("Invalid extension: %s", strings.Join(violations, "; "))
	}
	return nil
}

func isIDViolation(desc gojsonschema.ResultError) bool {
	field := desc.Field()
	if field == "id" || strings.HasSuffix(field, ".id") {
		return true
	}
	return desc.Type() == "required" && desc.Details()["property"] == "id"
}
