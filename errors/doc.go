// Package errors provides the structured error type returned by typedhttp's
// registration, construction and resolution paths.
//
// Every AppError carries a machine-readable code, so callers can branch with
// HasCode instead of matching strings:
//
//	if errors.HasCode(err, errors.ErrCodeHandlerConstruction) { ... }
package errors
