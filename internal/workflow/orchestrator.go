// Package workflow runs named multi-step analysis pipelines over a contract.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

// ErrWorkflowNotFound is returned for unknown workflow IDs.
var ErrWorkflowNotFound = errors.New("workflow not found")

// StepError is a pipeline break: the run failed at StepIndex after
// completing every step before it. No partial result accompanies it.
type StepError struct {
	StepIndex int
	Cause     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow step %d failed: %v", e.StepIndex, e.Cause)
}

func (e *StepError) Unwrap() error { return e.Cause }

// Run is one pipeline execution. CurrentStep is observable while the run is
// in flight, independent of the final result.
type Run struct {
	ID         string
	WorkflowID string

	current    atomic.Int32
	finishedAt atomic.Int64 // unix nanos, zero while in flight
	done       chan struct{}
	result     *model.WorkflowResult
	err        error
}

// CurrentStep is the index of the step currently executing (0-based), or the
// step count once finished.
func (r *Run) CurrentStep() int { return int(r.current.Load()) }

// Wait blocks until the run ends or ctx is cancelled.
func (r *Run) Wait(ctx context.Context) (*model.WorkflowResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.done:
		return r.result, r.err
	}
}

// Finished runs stay queryable for the retention window, then get evicted
// on the next Start. maxRetainedRuns caps the map if traffic outpaces the
// window; in-flight runs are never evicted.
const (
	runRetention    = 10 * time.Minute
	maxRetainedRuns = 256
)

type Orchestrator struct {
	defs   []model.Workflow
	index  map[string]int
	runner AgentRunner
	log    *zap.SugaredLogger

	retention time.Duration
	maxRuns   int

	mu   sync.Mutex
	runs map[string]*Run
}

func NewOrchestrator(runner AgentRunner, log *zap.SugaredLogger) *Orchestrator {
	o := &Orchestrator{
		runner:    runner,
		log:       log,
		index:     map[string]int{},
		runs:      map[string]*Run{},
		retention: runRetention,
		maxRuns:   maxRetainedRuns,
	}
	for _, w := range builtinWorkflows() {
		o.index[w.ID] = len(o.defs)
		o.defs = append(o.defs, w)
	}
	return o
}

// Workflows lists the declared pipelines.
func (o *Orchestrator) Workflows() []model.Workflow {
	out := make([]model.Workflow, len(o.defs))
	copy(out, o.defs)
	return out
}

func (o *Orchestrator) Workflow(id string) (*model.Workflow, error) {
	i, ok := o.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	w := o.defs[i]
	return &w, nil
}

// Progress reports the current step index of a run.
func (o *Orchestrator) Progress(runID string) (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	run, ok := o.runs[runID]
	if !ok {
		return 0, false
	}
	return run.CurrentStep(), true
}

// Start begins a run and returns immediately; callers observe progress via
// the Run and collect the outcome with Wait.
func (o *Orchestrator) Start(ctx context.Context, workflowID, contractCode string, language model.Language, chains []string) (*Run, error) {
	wf, err := o.Workflow(workflowID)
	if err != nil {
		return nil, err
	}
	run := &Run{ID: uuid.NewString(), WorkflowID: workflowID, done: make(chan struct{})}
	o.mu.Lock()
	o.evictLocked(time.Now())
	o.runs[run.ID] = run
	o.mu.Unlock()

	go func() {
		run.result, run.err = o.execute(ctx, run, wf, contractCode, language, chains)
		run.finishedAt.Store(time.Now().UnixNano())
		close(run.done)
	}()
	return run, nil
}

// evictLocked drops finished runs older than the retention window, then the
// oldest finished runs while the map is over maxRuns. Callers hold o.mu.
func (o *Orchestrator) evictLocked(now time.Time) {
	cutoff := now.Add(-o.retention).UnixNano()
	for id, r := range o.runs {
		if fin := r.finishedAt.Load(); fin != 0 && fin < cutoff {
			delete(o.runs, id)
		}
	}
	for len(o.runs) >= o.maxRuns {
		oldestID := ""
		var oldest int64
		for id, r := range o.runs {
			fin := r.finishedAt.Load()
			if fin == 0 {
				continue
			}
			if oldestID == "" || fin < oldest {
				oldestID, oldest = id, fin
			}
		}
		if oldestID == "" {
			return
		}
		delete(o.runs, oldestID)
	}
}

// Execute runs a workflow to completion. On a step failure the whole run
// fails with a StepError; the last completed index is only recoverable from
// the error.
func (o *Orchestrator) Execute(ctx context.Context, workflowID, contractCode string, language model.Language, chains []string) (*model.WorkflowResult, error) {
	run, err := o.Start(ctx, workflowID, contractCode, language, chains)
	if err != nil {
		return nil, err
	}
	return run.Wait(ctx)
}

func (o *Orchestrator) execute(ctx context.Context, run *Run, wf *model.Workflow, contractCode string, language model.Language, chains []string) (*model.WorkflowResult, error) {
	started := time.Now().UTC()
	var results model.StageResults
	for i, step := range wf.Steps {
		// cancellation stops before the next step; no output is emitted for
		// a step abandoned mid-flight
		if err := ctx.Err(); err != nil {
			return nil, &StepError{StepIndex: i, Cause: err}
		}
		run.current.Store(int32(i))
		out, err := o.runner.RunStep(ctx, StepRequest{
			Workflow:     wf,
			StepIndex:    i,
			Step:         step,
			Stage:        wf.Stages[i],
			ContractCode: contractCode,
			Language:     language,
			Chains:       chains,
			Prior:        results,
		})
		if err != nil {
			o.log.Warnw("workflow step failed", "workflow", wf.ID, "step", i, "agent", step.Agent, "err", err)
			return nil, &StepError{StepIndex: i, Cause: err}
		}
		results = append(results, model.StageResult{Stage: wf.Stages[i], Output: out})
	}
	run.current.Store(int32(len(wf.Steps)))
	res := &model.WorkflowResult{
		WorkflowID:     wf.ID,
		ExecutionTime:  started,
		StepsCompleted: len(wf.Steps),
		Results:        results,
	}
	if wf.ID == "threat_mesh" {
		if len(chains) == 0 {
			chains = DefaultChains
		}
		res.ChainsAnalyzed = chains
	}
	o.log.Infow("workflow complete", "workflow", wf.ID, "steps", len(wf.Steps), "elapsed", time.Since(started))
	return res, nil
}
