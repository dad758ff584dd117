// Package workflow implements the Temporal workflow for the go-numflow
// platform.
//
// The workflow does not hard-code its control flow. It builds the
// random-number state machine topology once (see Definition) and interprets
// it through an executor that maps task states to Temporal activities and
// wait states to durable timers.
//
// Workflows should not contain any non-deterministic operations
// such as random number generation, system time access, or external I/O.
// Such operations are delegated to activities: the random draw happens in
// the GenerateRandomNumber activity, never here.
package workflow
