package greeting

// GetOutput is the response wrapper for reading the greeting.
type GetOutput struct {
	Body Data
}

// SetOutput echoes the stored greeting back to the caller.
type SetOutput struct {
	Body Data
}
