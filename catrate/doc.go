// Package catrate is the rate-limiting external collaborator: it wraps
// golang.org/x/time/rate with a per-category limiter pool and a Gate that
// turns a rejected reservation into a cancelled future.Cell rather than a
// blocked or dropped call.
package catrate
