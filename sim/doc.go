/*
Package sim runs grow-only set replicas of one process against each other and
checks that they converge. Delivery between replicas is deliberately hostile:
operations arrive out of order, late and possibly more than once, while pairs
of replicas now and then exchange full snapshots instead. Nothing here touches
the network; the package exercises the replication contract of package crdt
the way a transport built on top of it would.
*/
package sim
