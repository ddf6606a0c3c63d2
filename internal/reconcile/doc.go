// Package reconcile implements the Reconciliation Queue component.
//
// Failed pair fetches and scheduled prewarm pairs become tasks in an
// unbounded FIFO queue. A periodic worker:
//   - Pops at most one task per tick (deliberately slow, never amplifies
//     upstream load)
//   - Fetches both coins' series concurrently and writes the pair cache
//   - Reinserts failed tasks with an incremented attempt count
//   - Drops a task after the attempt ceiling; the failure is terminal and
//     surfaced only in logs
package reconcile
