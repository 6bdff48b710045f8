// Package kernel provides the shared primitives of the job host domain.
//
// The package includes:
//   - UUID: a value object identifying scheduled jobs and broadcast units
//   - Clock: the time source handlers read "now" from, replaceable in tests
package kernel
