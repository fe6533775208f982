package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"github.com/abhisek/certquiz/internal/question"
)

// SampleFilename is the suggested name for the JSON sample file.
const SampleFilename = "sample-questions.json"

// SampleQuestions are the records written by the sample exporters.
func SampleQuestions() []question.Question {
	return []question.Question{
		{
			ID:     1,
			Prompt: "What is the primary function of DNS?",
			Options: []string{
				"To assign IP addresses to new devices",
				"To translate domain names to IP addresses",
				"To encrypt network traffic",
				"To manage database connections",
			},
			CorrectAnswer: "To translate domain names to IP addresses",
			Explanation:   "The Domain Name System (DNS) translates human-readable domain names to IP addresses.",
		},
		{
			ID:            2,
			Prompt:        "Which encryption algorithm is considered asymmetric?",
			Options:       []string{"AES", "DES", "RSA", "Blowfish"},
			CorrectAnswer: "RSA",
			Explanation:   "RSA is an asymmetric encryption algorithm that uses a pair of keys.",
		},
	}
}

// SampleJSON renders the sample questions in the JSON upload format.
func SampleJSON() []byte {
	return EncodeJSON(SampleQuestions())
}

// EncodeJSON renders questions in the JSON upload format.
func EncodeJSON(qs []question.Question) []byte {
	// Marshalling plain strings and ints cannot fail.
	b, _ := json.MarshalIndent(qs, "", "  ")
	return append(b, '\n')
}

// SampleCSV renders the sample questions in the CSV upload format.
func SampleCSV() []byte {
	return EncodeCSV(SampleQuestions())
}

// EncodeCSV renders questions in the CSV upload format. Questions with more
// than four options are truncated to the first four.
func EncodeCSV(qs []question.Question) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "question", "option1", "option2", "option3", "option4", "correctAnswer", "explanation"})
	for _, q := range qs {
		row := []string{strconv.Itoa(q.ID), q.Prompt}
		for i := 0; i < maxOptions; i++ {
			if i < len(q.Options) {
				row = append(row, q.Options[i])
			} else {
				row = append(row, "")
			}
		}
		row = append(row, q.CorrectAnswer, q.Explanation)
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes()
}
