package must

// Must panics when err is non-nil and otherwise returns v. Intended for
// package-level initialisation of values that cannot fail at runtime.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
