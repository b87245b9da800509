/*
Package replica wraps a grow-only set into a replica service that can be
shared between goroutines of one process. Package crdt leaves all
synchronization to the caller; this package is that caller-side discipline:
every access to the owned set happens under a lock, and state only leaves or
enters a replica as an independent copy.

Services are decorated with logging and metrics the same way the other
services of this module are, see NewLoggingService and NewMetricsService.
*/
package replica
