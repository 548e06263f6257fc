package ai

import (
	"encoding/json"
	"fmt"
	"os"
)

// ToolDefinition is a single function definition in the chat-completions
// tool format, kept as raw JSON so operators can ship their own schemas.
type ToolDefinition json.RawMessage

// LoadFunctions reads tool definitions from a JSON file holding an array of
// function definitions. An empty path returns the compiled-in defaults.
func LoadFunctions(path string) ([]ToolDefinition, error) {
	if path == "" {
		return DefaultFunctions(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read functions file: %w", err)
	}

	var defs []json.RawMessage
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse functions file: %w", err)
	}

	tools := make([]ToolDefinition, 0, len(defs))
	for _, d := range defs {
		tools = append(tools, ToolDefinition(d))
	}
	return tools, nil
}

// DefaultFunctions covers the investigation queries the assistant knows how
// to dispatch.
func DefaultFunctions() []ToolDefinition {
	defs := []string{
		functionDef("get_cow_calving_status",
			"Check why a calving alert was or was not generated for a cow on a given date."),
		functionDef("get_cow_heat_status",
			"Check why a heat alert was or was not generated for a cow on a given date."),
		functionDef("check_animal_low_activity",
			"Check why a low-activity alert was or was not generated for a cow on a given date."),
	}
	tools := make([]ToolDefinition, 0, len(defs))
	for _, d := range defs {
		tools = append(tools, ToolDefinition(d))
	}
	return tools
}

func functionDef(name, description string) string {
	return fmt.Sprintf(`{
  "name": %q,
  "description": %q,
  "parameters": {
    "type": "object",
    "properties": {
      "cowId": {"type": "integer", "description": "Numeric ID of the cow"},
      "date": {"type": "string", "description": "Date of the expected event, e.g. 2025-10-16 or Oct 16th"},
      "time": {"type": "string", "description": "Time of the expected event, e.g. 12 pm"}
    },
    "required": ["cowId"]
  }
}`, name, description)
}
