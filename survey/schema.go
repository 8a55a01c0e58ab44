package survey

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/stoewer/go-strcase"
)

// TablesSchema returns the JSON schema of a lookup tables file.
func TablesSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag: "yaml",
		Namer: func(t reflect.Type) string {
			return strcase.KebabCase(t.Name())
		},
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	schema := r.Reflect(&Tables{})
	schema.Title = "sleepsurvey lookup tables"
	schema.Description = "Overrides merged onto the built-in wording, midpoint and keyword tables."
	return json.MarshalIndent(schema, "", "  ")
}
