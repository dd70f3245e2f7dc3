package store

// notFoundError signals a missing entity for 404 mapping.
type notFoundError struct{ what string }

func (e notFoundError) Error() string { return e.what + " not found" }

// IsNotFound reports whether err indicates a missing entity.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

// conflictError signals a uniqueness or state conflict for 409 mapping.
type conflictError struct{ msg string }

func (e conflictError) Error() string { return e.msg }

// IsConflict reports whether err indicates a conflicting write.
func IsConflict(err error) bool {
	_, ok := err.(conflictError)
	return ok
}

// forbiddenError signals an operation the caller may not perform (403).
type forbiddenError struct{ msg string }

func (e forbiddenError) Error() string { return e.msg }

// IsForbidden reports whether err indicates a disallowed operation.
func IsForbidden(err error) bool {
	_, ok := err.(forbiddenError)
	return ok
}

// invalidError signals malformed input for 400 mapping.
type invalidError struct{ msg string }

func (e invalidError) Error() string { return e.msg }

// IsInvalid reports whether err indicates invalid input.
func IsInvalid(err error) bool {
	_, ok := err.(invalidError)
	return ok
}

// badCredentialsError signals a failed login for 401 mapping.
type badCredentialsError struct{}

func (badCredentialsError) Error() string { return "invalid username or password" }

// IsBadCredentials reports whether err indicates a failed authentication.
func IsBadCredentials(err error) bool {
	_, ok := err.(badCredentialsError)
	return ok
}
