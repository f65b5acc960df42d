package api

import "strings"

// Schema field locations and types
const (
	SchemaLocationQuery = "query"

	SchemaTypeString  = "string"
	SchemaTypeInteger = "integer"
	SchemaTypeBoolean = "boolean"
)

// SchemaField describes one query parameter a listing endpoint accepts.
// The descriptors for a view, taken together, cover exactly the
// parameters its pipeline consumes; documentation tooling renders them
// without inspecting the pipeline itself.
type SchemaField struct {
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// titleize renders a snake_case parameter name as a display title
func titleize(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
