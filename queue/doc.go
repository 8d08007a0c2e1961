// Package queue provides the two task queue disciplines used by the stealpool scheduler.
//
//   - Injector: a FIFO queue shared by every worker and every external submitter.
//   - Local: a double-ended queue owned by one worker. The owner pushes and pops at the
//     front (LIFO, favouring recently pushed work), other workers steal from the back
//     (oldest work first).
//
// Both types guard every operation with a single mutex. Pool sizes are bounded by the
// number of workers, so a lock-free structure buys little here; correctness is the contract.
// Zero values are ready to use.
package queue
