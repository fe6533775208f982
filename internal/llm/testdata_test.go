package llm

import "encoding/json"

const bankJSON = `{"questions":[{"question":"Which port does HTTPS use by default?","options":["80","443","8080","22"],"correctAnswer":"443","explanation":"TLS-wrapped HTTP listens on 443."}]}`

func bankSchema() *Schema {
	return &Schema{
		Name:        "test-bank",
		Description: "question bank",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question":      map[string]any{"type": "string"},
							"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 2},
							"correctAnswer": map[string]any{"type": "string"},
							"explanation":   map[string]any{"type": "string"},
						},
						"required": []any{"question", "options", "correctAnswer"},
					},
				},
			},
			"required": []any{"questions"},
		},
	}
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }
