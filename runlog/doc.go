// Package runlog provides an append-only event log for agent runs and the
// state derivation that folds over it.
//
// The Log exclusively owns the event sequence; every other component only
// appends or reads. Appends are serialized, assign non-decreasing timestamps,
// and (when a path is configured) synchronously rewrite the full log as
// newline-delimited JSON before returning.
//
// Run state is never stored independently: Derive recomputes it from the
// event sequence on every call, so any observer at any time sees a state
// exactly reconstructable from the events alone.
//
//	log := runlog.NewLog("run.ndjson")
//	log.Append(runlog.NewRunStarted("find a laptop", []string{"search", "done"}))
//	...
//	state := log.Derive()
//	fmt.Println(state.Status, state.Result)
package runlog
