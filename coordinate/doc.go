// Package coordinate implements two-tier task delegation: a Coordinator
// decomposes a task into subtasks, dispatches each to a single-purpose
// Worker, runs independent follow-up subtasks concurrently, and aggregates
// the outcomes into one Result.
//
// Delegation is bounded to one level. Workers execute exactly one action per
// subtask and cannot spawn workers or call back into the Coordinator.
// Instead of querying a decision backend every iteration, the Coordinator
// plans once (Analyze) and discovers follow-up work from completed subtask
// output via a pluggable Extractor.
//
// All subtask starts and completions are recorded on the shared runlog.Log
// using the same event vocabulary as the iteration engine, so a coordinated
// run derives state exactly like a looped run.
package coordinate
