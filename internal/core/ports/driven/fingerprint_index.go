package driven

import "context"

// FingerprintIndex remembers content fingerprints across batches (Redis).
// The engine itself holds no cross-call state; the worker consults this index
// only to flag cross-batch repeats in the report.
type FingerprintIndex interface {
	// Seen reports which of the given fingerprints were recorded by an
	// earlier batch. Unknown fingerprints are simply absent from the result.
	Seen(ctx context.Context, fingerprints []string) (map[string]bool, error)

	// Add records fingerprints as seen. Implementations may expire entries.
	Add(ctx context.Context, fingerprints []string) error

	// Ping checks if the index backend is healthy.
	Ping(ctx context.Context) error
}
