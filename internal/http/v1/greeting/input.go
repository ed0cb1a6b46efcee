package greeting

// SetInput is the request body for replacing the greeting.
type SetInput struct {
	Body Data
}
