package persist

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "localtodo://todos.schema.json"

const todosSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "done"],
    "properties": {
      "id":   {"type": "integer"},
      "text": {"type": "string"},
      "done": {"type": "boolean"}
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString(schemaURL, todosSchema)

// Issue is one problem found by Check.
type Issue struct {
	Location string
	Message  string
}

func (i Issue) String() string {
	if i.Location == "" {
		return i.Message
	}
	return i.Location + ": " + i.Message
}

// Check audits a stored value without changing how Load treats it: Load
// stays permissive, Check reports what a stricter reader would reject.
// A nil result means the value is clean.
func Check(raw string) []Issue {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return []Issue{{Message: "not valid JSON: " + err.Error()}}
	}

	var issues []Issue
	if err := compiledSchema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			issues = append(issues, collectSchemaIssues(ve)...)
		} else {
			issues = append(issues, Issue{Message: err.Error()})
		}
		return issues
	}

	list, err := Decode(raw)
	if err != nil {
		return []Issue{{Message: err.Error()}}
	}
	seen := make(map[int]int, len(list))
	for i, t := range list {
		if first, dup := seen[t.ID]; dup {
			issues = append(issues, Issue{
				Location: fmt.Sprintf("/%d/id", i),
				Message:  fmt.Sprintf("duplicate id %d (first at index %d)", t.ID, first),
			})
			continue
		}
		seen[t.ID] = i
	}
	return issues
}

// collectSchemaIssues flattens the validation tree to its leaves.
func collectSchemaIssues(ve *jsonschema.ValidationError) []Issue {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []Issue{{Location: loc, Message: strings.TrimSpace(ve.Message)}}
	}
	var out []Issue
	for _, c := range ve.Causes {
		out = append(out, collectSchemaIssues(c)...)
	}
	return out
}
