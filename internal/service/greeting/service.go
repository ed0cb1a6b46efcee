package greeting

import "context"

// DefaultMessage is the greeting every process starts with.
const DefaultMessage = "Hello, World"

// Service defines greeting operations.
//
// Implementations must make Set atomic with respect to Get: a reader observes
// either the previous or the new message, never a mix. Neither call fails.
type Service interface {
	Get(ctx context.Context) string
	Set(ctx context.Context, msg string)
}
