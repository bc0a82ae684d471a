package uid

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates int64 identifiers safe for use as database keys.
type NumberID interface {
	Generate() int64
}
