package agentloop

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/martinemde/runloop/llm"
	"github.com/martinemde/runloop/runlog"
)

// Engine drives the observe, decide, act loop for a single run. One logical
// task owns an Engine; the conversation history is never shared. The only
// shared object is the event log, which serializes its own appends.
type Engine struct {
	id       string
	backend  llm.Backend
	registry *Registry
	log      *runlog.Log
	config   Config
	logger   *zap.Logger
	history  []llm.Message
}

// NewEngine creates an Engine. A nil config uses DefaultConfig; a nil log
// gets a memory-only event log; a nil logger is replaced with a no-op.
func NewEngine(backend llm.Backend, registry *Registry, log *runlog.Log, config *Config, logger *zap.Logger) *Engine {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	if log == nil {
		log = runlog.NewLog("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		id:       uuid.New().String(),
		backend:  backend,
		registry: registry,
		log:      log,
		config:   cfg,
		logger:   logger,
	}
}

// ID returns the run identifier.
func (e *Engine) ID() string { return e.id }

// Log returns the engine's event log.
func (e *Engine) Log() *runlog.Log { return e.log }

// History returns a copy of the conversation history.
func (e *Engine) History() []llm.Message {
	h := make([]llm.Message, len(e.history))
	copy(h, e.history)
	return h
}

// SetVariable records a variable change on the event log. The old value is
// looked up from derived state so the event stream stays self-describing.
func (e *Engine) SetVariable(key, value string) error {
	old := e.log.Derive().Variables[key]
	return e.log.Append(runlog.NewVariableChanged(key, old, value))
}

// record appends an event to the log. A persistence failure is logged and
// never interrupts the run; the event is still held in memory.
func (e *Engine) record(ev runlog.Event) {
	if err := e.log.Append(ev); err != nil {
		e.logger.Error("event append failed",
			zap.String("run_id", e.id),
			zap.Error(err))
	}
}

// Run executes the loop until the terminator action fires, the iteration
// budget is exhausted, or the backend fails.
//
// Budget exhaustion is a graceful non-error return: the advisory text comes
// back with a nil error and the run is recorded as unsuccessful. A backend
// failure is fatal to the run and propagates; the engine never retries it.
func (e *Engine) Run(ctx context.Context, task string) (string, error) {
	e.history = []llm.Message{
		llm.SystemMessage(e.config.SystemPrompt),
		llm.UserMessage(task),
	}
	e.record(runlog.NewRunStarted(task, e.registry.Names()))
	e.logger.Info("run started",
		zap.String("run_id", e.id),
		zap.String("task", task),
		zap.Int("max_iterations", e.config.MaxIterations))

	start := time.Now()
	catalog := e.registry.Definitions()

	for iteration := 1; iteration <= e.config.MaxIterations; iteration++ {
		select {
		case <-ctx.Done():
			e.record(runlog.NewErrorOccurred(fmt.Sprintf("run cancelled: %v", ctx.Err()), false))
			return "", ctx.Err()
		default:
		}

		response, err := e.backend.Invoke(ctx, e.History(), catalog)
		if err != nil {
			e.record(runlog.NewErrorOccurred(fmt.Sprintf("backend failure: %v", err), false))
			e.logger.Error("backend failure", zap.String("run_id", e.id), zap.Error(err))
			return "", fmt.Errorf("backend failure on iteration %d: %w", iteration, err)
		}

		if len(response.ActionRequests) == 0 {
			// Content without action requests is not terminal; keep looping.
			if response.Content != "" {
				e.history = append(e.history, llm.AssistantMessage(response.Content))
			}
			continue
		}

		// One assistant message announces all requests for this iteration,
		// in backend emission order, before any of their results.
		e.history = append(e.history, llm.AssistantMessage(response.Content, response.ActionRequests...))

		for _, request := range response.ActionRequests {
			result, done := e.dispatch(ctx, request)
			if done {
				e.record(runlog.NewRunCompleted(result, true, iteration, time.Since(start)))
				e.logger.Info("run completed",
					zap.String("run_id", e.id),
					zap.Int("iterations", iteration),
					zap.Duration("duration", time.Since(start)))
				return result, nil
			}
		}

		if e.config.EnableLoopDetection && DetectLoop(e.history, e.config.LoopDetectionWindow) {
			warning := fmt.Sprintf("Loop detected: the last %d action calls follow a repeating pattern. Try a different approach.", e.config.LoopDetectionWindow)
			e.history = append(e.history, llm.UserMessage(warning))
			e.record(runlog.NewErrorOccurred(warning, true))
			e.logger.Warn("loop detected", zap.String("run_id", e.id))
		}
	}

	advisory := fmt.Sprintf("Reached maximum iterations (%d) without completing the task", e.config.MaxIterations)
	e.record(runlog.NewRunCompleted(advisory, false, e.config.MaxIterations, time.Since(start)))
	e.logger.Warn("iteration budget exhausted",
		zap.String("run_id", e.id),
		zap.Int("max_iterations", e.config.MaxIterations))
	return advisory, nil
}

// dispatch executes one action request: event, lookup, execute, result
// message, event. It returns done=true only when the terminator fired, with
// the final result text. All failures are absorbed as action-result data.
func (e *Engine) dispatch(ctx context.Context, request llm.ActionRequest) (string, bool) {
	e.record(runlog.NewActionInvoked(request.ID, request.Name, request.Arguments))

	action := e.registry.Get(request.Name)
	if action == nil {
		msg := fmt.Sprintf("Unknown action: %s", request.Name)
		e.history = append(e.history, llm.ActionResultMessage(request.ID, msg, true))
		e.record(runlog.NewActionCompleted(request.ID, request.Name, msg, false, 0))
		e.logger.Warn("unknown action requested",
			zap.String("run_id", e.id),
			zap.String("action", request.Name))
		return "", false
	}

	callStart := time.Now()
	outcome, err := action.Execute(ctx, request.Arguments)
	elapsed := time.Since(callStart)

	if err != nil {
		msg := fmt.Sprintf("Action error (%s): %v", request.Name, err)
		e.history = append(e.history, llm.ActionResultMessage(request.ID, msg, true))
		e.record(runlog.NewActionCompleted(request.ID, request.Name, msg, false, elapsed))
		e.logger.Warn("action failed",
			zap.String("run_id", e.id),
			zap.String("action", request.Name),
			zap.Error(err))
		return "", false
	}

	e.record(runlog.NewActionCompleted(request.ID, request.Name, outcome.Text, true, elapsed))

	if outcome.Terminate {
		return outcome.Text, true
	}

	truncated := TruncateActionOutput(outcome.Text, request.Name, e.config.OutputCharLimits, e.config.OutputLineLimits)
	e.history = append(e.history, llm.ActionResultMessage(request.ID, truncated, false))
	return "", false
}
