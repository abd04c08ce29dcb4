// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the shape of the JSON configuration file so a typo
// (e.g. a string chunkSize) fails at load time instead of surfacing as a
// zero value deep in the pipeline.
const configSchema = `{
  "type": "object",
  "properties": {
    "debug":               {"type": "boolean"},
    "style":               {"type": "string"},
    "chatModel":           {"type": "string"},
    "embeddingModel":      {"type": "string"},
    "embeddingDimensions": {"type": "integer", "minimum": 1},
    "chunkSize":           {"type": "integer", "minimum": 1},
    "maxChunks":           {"type": "integer", "minimum": 1},
    "topK":                {"type": "integer", "minimum": 1},
    "temperature":         {"type": "number", "minimum": 0, "maximum": 2},
    "timeout":             {"type": "integer", "minimum": 1},
    "wikiBaseURL":         {"type": "string"},
    "logFile":             {"type": "string"}
  },
  "additionalProperties": false
}`

// validateRaw checks raw config JSON against the embedded schema.
func validateRaw(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	docLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%s", strings.Join(problems, "; "))
}
