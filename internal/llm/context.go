package llm

import "context"

// Purposes recorded with each logged request.
const (
	PurposeBankGen = "bank-gen"
	PurposeUnknown = "unknown"
)

type purposeKey struct{}

// WithPurpose labels requests made with ctx in the request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return PurposeUnknown
}
