// Package apperrors provides chainable error values used as package-level
// sentinels across the adapter. An Error carries an optional HTTP status code
// and any number of wrapped causes, and works with errors.Is / errors.As.
package apperrors

// Error extends the standard error interface with derivation and wrapping
// helpers. Every method returns a new value; sentinels are never mutated.
type Error interface {
	error
	Unwrap() error

	New(msg string) Error                  // derive a new error from this one
	Msg(msg string) Error                  // new message, wraps the original
	MsgErr(msg string, err ...error) Error // new message, wraps the original and err
	Err(err ...error) Error                // same message, wraps err
	SetExpandError(bool) Error             // include wrapped causes in ErrorAll
	SetStatusCode(int) Error               // attach an HTTP status code
	StatusCode() int
	ErrorAll() string
	UnwrapAll() []error
}
