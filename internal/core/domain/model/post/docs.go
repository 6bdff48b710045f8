// Package post provides the Post aggregate as seen by background jobs.
//
// Key business rules:
//   - Status follows Draft -> Published; Published -> Unavailable is driven
//     elsewhere and only observed here (search index pruning)
//   - Publishing an already published post refreshes its timestamps, so a
//     redelivered publish job is harmless
//   - View counters only grow; the running average divides by elapsed days
//     with a floor so a post published moments ago never divides by zero
package post
