// Package services provides domain services that work across more than one
// aggregate of the blog.
//
// The package includes:
//   - BroadcastPlanner: decides who receives a new-post broadcast and when
package services
