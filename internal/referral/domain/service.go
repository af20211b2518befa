package domain

import "context"

// Source loads the seven referral extracts. Implementations return
// ErrMissingTable (wrapped with the table name) when an extract is unavailable.
type Source interface {
	Load(ctx context.Context) (Tables, error)
}
