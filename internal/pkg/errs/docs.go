// Package errs provides standardized error types for the job host.
// Every error type follows the same shape so callers can classify failures
// with errors.Is against the sentinel and inspect details with errors.As:
//   - a sentinel error variable (e.g., ErrObjectNotFound)
//   - a struct type carrying the error details and an optional cause
//   - constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The package includes:
//   - ObjectNotFoundError: a looked-up entity does not exist
//   - ValueIsInvalidError: a value fails a business rule
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsOutOfRangeError: a value lies outside its allowed bounds
package errs
