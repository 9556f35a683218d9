package compiler

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dhamidi/jfront/java/lookup"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Request asks a Batch to compile sources. Paths are collected with
// CollectSources and compiled together with Units.
type Request struct {
	ID        string
	Paths     []string
	Units     []*lookup.SourceUnit
	CreatedAt time.Time
}

// Job is the state of a submitted request.
type Job struct {
	ID        string
	Status    Status
	Request   Request
	Results   []*UnitResult
	Summary   Summary
	Error     string
	Errors    []string
	StartedAt time.Time
	EndedAt   time.Time
	Total     int
}

// Batch compiles requests one after another in the background.
type Batch struct {
	mu       sync.RWMutex
	jobs     map[string]*Job
	requests chan Request
	nextID   int

	compiler *Compiler
	workers  int
	ctx      context.Context
	stop     context.CancelFunc
	done     chan struct{}
	onDone   func(*Job)
}

type BatchOption func(*Batch)

// WithWorkers compiles each request with CompileParallel.
func WithWorkers(n int) BatchOption {
	return func(b *Batch) { b.workers = n }
}

// OnDone is called with a copy of every job that finished.
func OnDone(fn func(*Job)) BatchOption {
	return func(b *Batch) { b.onDone = fn }
}

func NewBatch(c *Compiler, opts ...BatchOption) *Batch {
	ctx, stop := context.WithCancel(context.Background())
	b := &Batch{
		jobs:     make(map[string]*Job),
		requests: make(chan Request, 100),
		compiler: c,
		workers:  1,
		ctx:      ctx,
		stop:     stop,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.run()
	return b
}

func (b *Batch) run() {
	defer close(b.done)
	for req := range b.requests {
		b.process(req)
	}
}

func (b *Batch) process(req Request) {
	b.mu.Lock()
	job := b.jobs[req.ID]
	if b.ctx.Err() != nil {
		job.Status = StatusCancelled
		b.mu.Unlock()
		b.finished(job)
		return
	}
	job.Status = StatusInProgress
	job.StartedAt = time.Now()
	b.mu.Unlock()

	units, errs := CollectSources(req.Paths)
	units = append(units, req.Units...)
	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Error())
	}

	b.mu.Lock()
	job.Total = len(units)
	b.mu.Unlock()

	results := b.compiler.CompileParallel(b.ctx, units, b.workers)
	summary := Summarize(results)

	b.mu.Lock()
	job.EndedAt = time.Now()
	job.Results = results
	job.Summary = summary
	job.Errors = messages
	switch {
	case summary.Cancelled > 0:
		job.Status = StatusCancelled
	case len(messages) > 0 && len(units) == 0:
		job.Status = StatusFailed
		job.Error = messages[0]
	default:
		job.Status = StatusCompleted
	}
	b.mu.Unlock()
	log.Infof("job %s %s: %d units, %d errors", job.ID, job.Status, summary.Units, summary.Errors)
	b.finished(job)
}

func (b *Batch) finished(job *Job) {
	if b.onDone == nil {
		return
	}
	b.mu.RLock()
	cp := *job
	b.mu.RUnlock()
	b.onDone(&cp)
}

// Submit queues a request and returns its job id.
func (b *Batch) Submit(req Request) string {
	b.mu.Lock()
	b.nextID++
	req.ID = fmt.Sprintf("%d", b.nextID)
	req.CreatedAt = time.Now()
	b.jobs[req.ID] = &Job{
		ID:      req.ID,
		Status:  StatusPending,
		Request: req,
	}
	b.mu.Unlock()

	b.requests <- req
	return req.ID
}

// Get returns a copy of a job.
func (b *Batch) Get(id string) (Job, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	job, ok := b.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// List returns copies of all jobs in submission order.
func (b *Batch) List() []Job {
	b.mu.RLock()
	defer b.mu.RUnlock()
	jobs := make([]Job, 0, len(b.jobs))
	for _, j := range b.jobs {
		jobs = append(jobs, *j)
	}
	sort.Slice(jobs, func(i, k int) bool {
		a, _ := strconv.Atoi(jobs[i].ID)
		c, _ := strconv.Atoi(jobs[k].ID)
		return a < c
	})
	return jobs
}

// Close cancels the running job, marks queued jobs cancelled and waits
// for the background goroutine to exit. Submit must not be called after
// Close.
func (b *Batch) Close() {
	b.stop()
	close(b.requests)
	<-b.done
}
