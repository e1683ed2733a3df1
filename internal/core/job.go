package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// Job states.
const (
	JobStarted   = "started"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

const (
	eventRun      = "run"
	eventComplete = "complete"
	eventFail     = "fail"
)

// JobHook is called after every state change of a job, with a snapshot of
// its record. Use JobRecord.Terminal to tell finished jobs apart.
type JobHook func(ctx context.Context, rec JobRecord)

// job drives one import through started → running → completed | failed.
// It is owned by a single goroutine.
type job struct {
	rec      JobRecord
	fsm      *fsm.FSM
	onChange JobHook
}

func newJob(ctx context.Context, req ImportRequest, mode ImportMode, onChange JobHook) *job {
	id := req.JobID
	if id == "" {
		id = uuid.NewString()
	}

	meta := RequestMetaFrom(ctx)
	j := &job{
		rec: JobRecord{
			ID:        id,
			SessionID: req.SessionID,
			Mode:      mode,
			FileName:  req.FileName,
			State:     JobStarted,
			Errores:   []string{},
			IPAddress: meta.IP,
			UserAgent: meta.UserAgent,
			StartedAt: time.Now(),
		},
		onChange: onChange,
	}

	j.fsm = fsm.NewFSM(
		JobStarted,
		fsm.Events{
			{Name: eventRun, Src: []string{JobStarted}, Dst: JobRunning},
			{Name: eventComplete, Src: []string{JobRunning}, Dst: JobCompleted},
			{Name: eventFail, Src: []string{JobStarted, JobRunning}, Dst: JobFailed},
		},
		fsm.Callbacks{
			"enter_" + JobFailed: j.enterFailed,
			"enter_state":        j.enterState,
		},
	)
	return j
}

func (j *job) enterState(ctx context.Context, e *fsm.Event) {
	j.rec.State = e.Dst
	if j.rec.Terminal() {
		j.rec.FinishedAt = time.Now()
	}
	if j.onChange != nil {
		rec := j.rec
		rec.Errores = append(make([]string, 0, len(j.rec.Errores)), j.rec.Errores...)
		j.onChange(ctx, rec)
	}
}

func (j *job) enterFailed(_ context.Context, e *fsm.Event) {
	if len(e.Args) > 0 {
		if err, ok := e.Args[0].(error); ok && err != nil {
			j.rec.Error = err.Error()
		}
	}
}

func (j *job) ID() string { return j.rec.ID }

func (j *job) State() string { return j.fsm.Current() }

// Transitions run on a context detached from cancellation so a job whose
// deadline passed can still be marked failed.

func (j *job) start(ctx context.Context) error {
	return j.fsm.Event(context.WithoutCancel(ctx), eventRun)
}

func (j *job) complete(ctx context.Context, res ImportResult) error {
	j.setResult(res)
	return j.fsm.Event(context.WithoutCancel(ctx), eventComplete)
}

func (j *job) fail(ctx context.Context, err error, res ImportResult) error {
	j.setResult(res)
	return j.fsm.Event(context.WithoutCancel(ctx), eventFail, err)
}

func (j *job) setResult(res ImportResult) {
	j.rec.Total = res.Total
	j.rec.Exitosos = res.Exitosos
	j.rec.Fallidos = res.Fallidos
	if res.Errores != nil {
		j.rec.Errores = res.Errores
	}
}
