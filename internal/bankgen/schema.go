package bankgen

import "github.com/abhisek/certquiz/internal/llm"

// BankSchema is the structured-output shape requested from the model.
var BankSchema = &llm.Schema{
	Name:        "question-bank",
	Description: "A batch of multiple-choice certification exam questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question stem, self-contained and unambiguous",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    2,
							"maxItems":    4,
							"description": "Answer options; exactly one is correct",
						},
						"correctAnswer": map[string]any{
							"type":        "string",
							"description": "The correct option, copied verbatim from options",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences on why the answer is correct",
						},
					},
					"required":             []any{"question", "options", "correctAnswer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

type bankOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}
