// Package agentloop implements the iteration engine: the observe, decide,
// act loop that pairs a decision backend with a registry of actions.
//
// Each iteration queries the backend with the full conversation and action
// catalog. Action requests are announced in a single assistant message
// (before any of their results, since results are matched by request ID),
// then dispatched in order. Unknown actions and execution failures are fed
// back to the backend as error results and never abort the run. The run ends
// when the distinguished terminator action fires, or gracefully when the
// iteration budget is exhausted.
//
// Every step is recorded on a runlog.Log, so the authoritative run state is
// always derivable from the event sequence.
//
//	registry := agentloop.NewRegistry()
//	registry.Register(searchAction)
//	registry.Register(agentloop.NewTerminator("done"))
//
//	engine := agentloop.NewEngine(backend, registry, log, nil, logger)
//	result, err := engine.Run(ctx, "Find a laptop under $1500 for programming")
package agentloop
