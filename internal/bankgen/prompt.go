package bankgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write practice questions for professional certification exams.

Rules:
- Every question is multiple choice with 4 options and exactly one correct option.
- correctAnswer must be copied character for character from options.
- Distractors must be plausible to someone who half-knows the topic.
- Keep questions self-contained. Do not refer to "the above" or to other questions.
- The explanation states why the correct option is right in one or two sentences.
- Do not repeat any question from the "already covered" list.`

func buildPrompt(in Input, n, chunk, chunks int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	if in.Level != "" {
		fmt.Fprintf(&b, "Level: %s\n", in.Level)
	}
	fmt.Fprintf(&b, "Questions in this batch: %d\n", n)
	if chunks > 1 {
		fmt.Fprintf(&b, "Batch %d of %d. Cover a different subtopic than the other batches.\n", chunk+1, chunks)
	}

	b.WriteString("\nAlready covered:\n")
	if len(in.Avoid) == 0 {
		b.WriteString("None")
	}
	for i, q := range in.Avoid {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
