package bankgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/abhisek/certquiz/internal/llm"
	"github.com/abhisek/certquiz/internal/pool"
	"github.com/abhisek/certquiz/internal/question"
)

func chunkJSON(prompts ...string) json.RawMessage {
	var qs []string
	for _, p := range prompts {
		qs = append(qs, fmt.Sprintf(
			`{"question":%q,"options":["A","B","C","D"],"correctAnswer":"B","explanation":"B is right."}`, p))
	}
	return json.RawMessage(`{"questions":[` + strings.Join(qs, ",") + `]}`)
}

func serialConfig(chunk int) Config {
	cfg := DefaultConfig()
	cfg.ChunkSize = chunk
	cfg.Concurrency = 1
	return cfg
}

func TestGenerate_IngestsIntoPool(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: chunkJSON("What is a VPC?", "What is an AZ?")},
		llm.MockResponse{Content: chunkJSON("What is IAM?")},
	)
	gen := New(mock, serialConfig(2), zerolog.Nop())

	bank, err := gen.Generate(context.Background(), Input{Topic: "AWS Cloud Practitioner", Count: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bank.Records != 3 {
		t.Fatalf("expected 3 records, got %d", bank.Records)
	}
	if bank.Filename != "generated-aws-cloud-practitioner.json" {
		t.Errorf("unexpected filename %q", bank.Filename)
	}
	if bank.RequestID == "" {
		t.Error("expected a request ID")
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
	if mock.Calls[0].Schema != BankSchema {
		t.Error("expected the bank schema on every request")
	}
	if !strings.Contains(mock.Calls[1].Prompt, "Batch 2 of 2") {
		t.Errorf("second prompt missing batch marker: %q", mock.Calls[1].Prompt)
	}

	m := pool.New(zerolog.Nop())
	n, err := m.Ingest(context.Background(), bank.Data, bank.Filename)
	if err != nil {
		t.Fatalf("ingest generated bank: %v", err)
	}
	if n != 3 || m.Source() != pool.SourceUploaded {
		t.Fatalf("expected 3 uploaded questions, got %d from %v", n, m.Source())
	}
	qs := m.Questions()
	if qs[0].ID != 1 || qs[2].Prompt != "What is IAM?" {
		t.Fatalf("unexpected pool contents: %+v", qs)
	}
}

func TestGenerate_DropsRepeats(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: chunkJSON("What is DNS?", "what  is dns?")},
		llm.MockResponse{Content: chunkJSON("What is TLS?", "What is BGP?")},
	)
	gen := New(mock, serialConfig(2), zerolog.Nop())

	bank, err := gen.Generate(context.Background(), Input{
		Topic: "Networking",
		Count: 4,
		Avoid: []string{"What is BGP?"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bank.Records != 2 {
		t.Fatalf("expected 2 records after dedup, got %d", bank.Records)
	}
	if !strings.Contains(mock.Calls[0].Prompt, "1. What is BGP?") {
		t.Errorf("avoid list missing from prompt: %q", mock.Calls[0].Prompt)
	}
}

func TestGenerate_UntrustedOutputRejectedOnIngest(t *testing.T) {
	bad := json.RawMessage(`{"questions":[{"question":"Pick one","options":["A","B"],"correctAnswer":"C","explanation":""}]}`)
	gen := New(llm.NewMockProvider(llm.MockResponse{Content: bad}), serialConfig(5), zerolog.Nop())

	bank, err := gen.Generate(context.Background(), Input{Topic: "Security", Count: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := pool.New(zerolog.Nop())
	_, err = m.Ingest(context.Background(), bank.Data, bank.Filename)
	var verr *question.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T (%v)", err, err)
	}
	if m.Source() != pool.SourceDefault {
		t.Fatal("pool must keep the default bank after a rejected upload")
	}
}

func TestGenerate_ProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: chunkJSON("Q1")},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	gen := New(mock, serialConfig(1), zerolog.Nop())

	_, err := gen.Generate(context.Background(), Input{Topic: "Kubernetes", Count: 2})
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestGenerate_InputErrors(t *testing.T) {
	gen := New(llm.NewMockProvider(), DefaultConfig(), zerolog.Nop())

	if _, err := gen.Generate(context.Background(), Input{Topic: "  ", Count: 3}); !errors.Is(err, ErrEmptyTopic) {
		t.Errorf("expected ErrEmptyTopic, got %v", err)
	}
	if _, err := gen.Generate(context.Background(), Input{Topic: "Go", Count: 0}); err == nil {
		t.Error("expected error for zero count")
	}
}

func TestGenerate_ConcurrentChunks(t *testing.T) {
	mock := llm.NewMockProvider()
	for i := range 4 {
		mock.AddResponse(llm.MockResponse{Content: chunkJSON(fmt.Sprintf("Question %d", i))})
	}
	cfg := DefaultConfig()
	cfg.ChunkSize = 1
	cfg.Concurrency = 4
	gen := New(mock, cfg, zerolog.Nop())

	bank, err := gen.Generate(context.Background(), Input{Topic: "Linux", Count: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bank.Records != 4 || mock.CallCount() != 4 {
		t.Fatalf("expected 4 records from 4 calls, got %d from %d", bank.Records, mock.CallCount())
	}
}

func TestChunkSizes(t *testing.T) {
	tests := []struct {
		total, size int
		want        string
	}{
		{10, 5, "[5 5]"},
		{7, 5, "[5 2]"},
		{3, 5, "[3]"},
	}
	for _, tt := range tests {
		if got := fmt.Sprint(chunkSizes(tt.total, tt.size)); got != tt.want {
			t.Errorf("chunkSizes(%d, %d) = %s, want %s", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("CompTIA Security+ (SY0-701)"); got != "generated-comptia-security-sy0-701.json" {
		t.Errorf("unexpected filename %q", got)
	}
	if got := Filename("!!!"); got != "generated-bank.json" {
		t.Errorf("unexpected filename %q", got)
	}
}
