package utils

// ContextKey is the dedicated type for request-scoped values so keys never
// collide with other packages.
type ContextKey string
