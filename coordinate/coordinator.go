package coordinate

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/martinemde/runloop/agentloop"
	"github.com/martinemde/runloop/runlog"
)

var budgetPattern = regexp.MustCompile(`\$\s?([0-9][0-9,]*)`)

// Coordinator decomposes a task into subtasks, dispatches each to a worker,
// and aggregates the outcomes. Delegation is one level deep: the coordinator
// dispatches to workers, and workers cannot delegate further.
//
// Follow-up subtasks discovered in a completed subtask's output run
// concurrently; the shared event log serializes their appends into a total
// order, though the relative order of concurrently completing subtasks is
// not guaranteed.
type Coordinator struct {
	registry  *agentloop.Registry
	log       *runlog.Log
	extractor Extractor
	workers   map[string]*Worker
	logger    *zap.Logger
}

// NewCoordinator creates a Coordinator with workers for the stock subtask
// kinds (search, reviews, compare). A nil log gets a memory-only event log;
// a nil extractor uses DefaultExtractor; a nil logger is replaced with a
// no-op.
func NewCoordinator(registry *agentloop.Registry, log *runlog.Log, extractor Extractor, logger *zap.Logger) *Coordinator {
	if log == nil {
		log = runlog.NewLog("")
	}
	if extractor == nil {
		extractor = DefaultExtractor()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		registry:  registry,
		log:       log,
		extractor: extractor,
		workers:   make(map[string]*Worker),
		logger:    logger,
	}
	for _, kind := range []string{KindSearch, KindReviews, KindCompare} {
		c.workers[kind] = NewWorker(kind, registry, log)
	}
	return c
}

// RegisterWorker adds or replaces the worker for a subtask kind.
func (c *Coordinator) RegisterWorker(kind string, worker *Worker) {
	c.workers[kind] = worker
}

// Log returns the coordinator's event log.
func (c *Coordinator) Log() *runlog.Log { return c.log }

// Analyze deterministically decomposes a task into its seed subtasks. Even
// an empty or ambiguous task yields the initial search subtask.
func (c *Coordinator) Analyze(task string) []Subtask {
	parentID := uuid.New().String()

	params := map[string]interface{}{"query": task}
	if m := budgetPattern.FindStringSubmatch(task); m != nil {
		if price, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			params["max_price"] = price
		}
	}

	return []Subtask{{
		ID:          uuid.New().String(),
		ParentID:    parentID,
		Kind:        KindSearch,
		Description: "search for candidate items",
		Params:      params,
	}}
}

// Delegate executes the seed subtasks in order. A successful search seeds a
// concurrent fan-out of review subtasks (one per extracted identifier)
// followed by a compare subtask over all identifiers. Delegate returns only
// after every dispatched subtask has completed or failed.
func (c *Coordinator) Delegate(ctx context.Context, subtasks []Subtask) []WorkerOutcome {
	var outcomes []WorkerOutcome

	for _, subtask := range subtasks {
		outcome := c.dispatch(ctx, subtask)
		outcomes = append(outcomes, outcome)

		if subtask.Kind != KindSearch || !outcome.Success {
			continue
		}

		ids := c.extractor.Extract(outcome.Output)
		if len(ids) == 0 {
			c.logger.Warn("no identifiers extracted from search output",
				zap.String("subtask_id", subtask.ID))
			continue
		}

		// Review subtasks are independent of each other; fan out and join.
		reviews := make([]WorkerOutcome, len(ids))
		g, gctx := errgroup.WithContext(ctx)
		for i, id := range ids {
			g.Go(func() error {
				reviews[i] = c.dispatch(gctx, Subtask{
					ID:          uuid.New().String(),
					ParentID:    subtask.ParentID,
					Kind:        KindReviews,
					Description: fmt.Sprintf("fetch reviews for %s", id),
					Params:      map[string]interface{}{"item_id": id},
				})
				return nil
			})
		}
		// Review dispatches report failure as outcome data, never as an error.
		_ = g.Wait()
		outcomes = append(outcomes, reviews...)

		outcomes = append(outcomes, c.dispatch(ctx, Subtask{
			ID:          uuid.New().String(),
			ParentID:    subtask.ParentID,
			Kind:        KindCompare,
			Description: "compare candidate items",
			Params:      map[string]interface{}{"item_ids": ids},
		}))
	}

	return outcomes
}

// dispatch routes one subtask to its worker. A missing worker yields a
// failed outcome, recorded on the log like any other subtask, and never
// aborts siblings.
func (c *Coordinator) dispatch(ctx context.Context, subtask Subtask) WorkerOutcome {
	worker, ok := c.workers[subtask.Kind]
	if !ok {
		msg := fmt.Sprintf("no worker registered for subtask kind %q", subtask.Kind)
		c.log.Append(runlog.NewActionInvoked(subtask.ID, subtask.Kind, nil))
		c.log.Append(runlog.NewActionCompleted(subtask.ID, subtask.Kind, msg, false, 0))
		c.logger.Warn("missing worker", zap.String("kind", subtask.Kind))
		return WorkerOutcome{
			SubtaskID: subtask.ID,
			Kind:      subtask.Kind,
			Success:   false,
			Output:    msg,
		}
	}
	return worker.Execute(ctx, subtask)
}

// Aggregate synthesizes the final Result from the outcomes. It is
// independent of outcome ordering: the recommendation is read from the
// compare outcome wherever it appears, and overall success requires every
// outcome to have succeeded.
func (c *Coordinator) Aggregate(taskID, task string, outcomes []WorkerOutcome) Result {
	succeeded, failed := 0, 0
	recommendation := ""
	for _, outcome := range outcomes {
		if outcome.Success {
			succeeded++
		} else {
			failed++
		}
		if outcome.Kind == KindCompare && outcome.Success && recommendation == "" {
			if ids := c.extractor.Extract(outcome.Output); len(ids) > 0 {
				recommendation = ids[0]
			}
		}
	}

	result := Result{
		TaskID:         taskID,
		Success:        failed == 0 && len(outcomes) > 0,
		Outcomes:       outcomes,
		Recommendation: recommendation,
		Degraded:       recommendation == "",
	}

	summary := fmt.Sprintf("task %q: %d subtasks, %d succeeded, %d failed", task, len(outcomes), succeeded, failed)
	if result.Degraded {
		summary += "; no recommendation could be established"
	} else {
		summary += fmt.Sprintf("; recommended %s", recommendation)
	}
	result.Summary = summary
	return result
}

// Coordinate is the sole externally exposed entry point: it runs analyze,
// delegate, and aggregate, bracketed by run_started and run_completed events.
func (c *Coordinator) Coordinate(ctx context.Context, task string) Result {
	start := time.Now()

	kinds := make([]string, 0, len(c.workers))
	for kind := range c.workers {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	c.log.Append(runlog.NewRunStarted(task, kinds))
	c.logger.Info("coordination started", zap.String("task", task))

	subtasks := c.Analyze(task)
	taskID := subtasks[0].ParentID

	outcomes := c.Delegate(ctx, subtasks)
	result := c.Aggregate(taskID, task, outcomes)
	result.Duration = time.Since(start)

	c.log.Append(runlog.NewRunCompleted(result.Summary, result.Success, len(outcomes), result.Duration))
	c.logger.Info("coordination completed",
		zap.String("task_id", taskID),
		zap.Bool("success", result.Success),
		zap.Int("subtasks", len(outcomes)),
		zap.Duration("duration", result.Duration))
	return result
}
