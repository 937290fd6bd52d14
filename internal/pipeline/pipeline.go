// Package pipeline narrows a quake working set through five fixed stages:
// category, latitude, longitude, date and magnitude.
package pipeline

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/observability"
)

// Status is the outcome of applying a query to a stage.
type Status int

const (
	Narrowed Status = iota + 1
	AcceptedAll
	Rejected
)

func (s Status) String() string {
	switch s {
	case Narrowed:
		return "narrowed"
	case AcceptedAll:
		return "accepted_all"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

const (
	reasonNoRecords = "no records to filter"
	reasonFinished  = "filter pipeline already complete"
)

// Bounds describes the current stage's input set. Range stages fill Min and
// Max; the category stage fills Categories in sorted order.
type Bounds struct {
	Stage      Stage
	Empty      bool
	Min        float64
	Max        float64
	Categories []string
}

// Result reports what a query did to the stage's input set. Min and Max hold
// the range applied, or the input bounds when everything was accepted.
type Result struct {
	Stage      Stage
	Status     Status
	Reason     string
	Before     int
	After      int
	Min        float64
	Max        float64
	Categories []string // categories kept by the category stage
}

// Selection records what the confirmed category and date stages kept.
type Selection struct {
	Categories []string
	DateFrom   time.Time
	DateTo     time.Time
}

// Pipeline holds the working set as it moves through the stages. It is not
// safe for concurrent use.
type Pipeline struct {
	logger  *slog.Logger
	metrics *observability.Metrics

	stage   Stage
	done    bool
	input   []domain.Entry // input set of the current stage
	pending []domain.Entry // output of the last accepted query at this stage
	applied bool
	last    Result

	selection Selection
}

// New creates a pipeline positioned at the category stage. entries is not
// modified.
func New(entries []domain.Entry, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		logger:  logger,
		metrics: metrics,
		stage:   StageCategory,
		input:   slices.Clone(entries),
	}
}

// Stage returns the stage awaiting a query.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Done reports whether every stage has been confirmed.
func (p *Pipeline) Done() bool {
	return p.done
}

// Selection returns the confirmed category and date choices.
func (p *Pipeline) Selection() Selection {
	return p.selection
}

// Working returns a copy of the current working set: the pending output of
// the current stage if a query has been accepted, otherwise its input. Once
// the pipeline is done it is the final narrowed set.
func (p *Pipeline) Working() []domain.Entry {
	if p.applied {
		return slices.Clone(p.pending)
	}
	return slices.Clone(p.input)
}

// Bounds computes the current stage's bounds over its input set.
func (p *Pipeline) Bounds() Bounds {
	b := Bounds{Stage: p.stage, Empty: len(p.input) == 0}
	if b.Empty {
		return b
	}
	if p.stage == StageCategory {
		b.Categories = categories(p.input)
		return b
	}

	rs := rangeStages[p.stage]
	b.Min, b.Max = math.Inf(1), math.Inf(-1)
	for _, e := range p.input {
		v := rs.key(e)
		b.Min = math.Min(b.Min, v)
		b.Max = math.Max(b.Max, v)
	}
	return b
}

// Apply evaluates a raw query against the current stage's input set. A
// Rejected result leaves the stage unchanged; otherwise the output replaces
// any earlier output at this stage and waits for Confirm.
func (p *Pipeline) Apply(input string) Result {
	if p.done {
		return Result{Stage: p.stage, Status: Rejected, Reason: reasonFinished}
	}

	var r Result
	var out []domain.Entry
	switch {
	case len(p.input) == 0:
		r = Result{Stage: p.stage, Status: AcceptedAll, Reason: reasonNoRecords}
	case p.stage == StageCategory:
		r, out = p.applyCategory(strings.TrimSpace(input))
	default:
		r, out = p.applyRange(input)
	}
	r.Before = len(p.input)

	if r.Status != Rejected {
		if out == nil {
			out = slices.Clone(p.input)
		}
		p.pending = out
		p.applied = true
		r.After = len(out)
		p.metrics.RecordsRetained.WithLabelValues(p.stage.String()).Set(float64(r.After))
	} else {
		r.After = r.Before
	}

	p.last = r
	p.metrics.StageResults.WithLabelValues(p.stage.String(), r.Status.String()).Inc()
	p.logger.Debug("stage query applied",
		"stage", p.stage.String(),
		"status", r.Status.String(),
		"before", r.Before,
		"after", r.After,
		"reason", r.Reason,
	)
	return r
}

// Confirm advances to the next stage when yes is true and a query has been
// accepted at the current stage. It reports whether the stage advanced.
func (p *Pipeline) Confirm(yes bool) bool {
	if p.done || !yes || !p.applied {
		return false
	}

	p.record(p.last)
	p.logger.Info("stage confirmed", "stage", p.stage.String(), "records", len(p.pending))

	p.input = p.pending
	p.pending = nil
	p.applied = false
	if p.stage == StageMagnitude {
		p.done = true
		p.applied = true
		p.pending = p.input
		return true
	}
	p.stage++
	return true
}

func (p *Pipeline) record(r Result) {
	switch r.Stage {
	case StageCategory:
		p.selection.Categories = r.Categories
	case StageDate:
		if r.Before > 0 {
			p.selection.DateFrom = time.Unix(int64(r.Min), 0).UTC()
			p.selection.DateTo = time.Unix(int64(r.Max), 0).UTC()
		}
	}
}

func (p *Pipeline) applyCategory(token string) (Result, []domain.Entry) {
	all := categories(p.input)
	if token == "" {
		return Result{Stage: StageCategory, Status: AcceptedAll, Categories: all}, nil
	}

	category, ok := matchCategory(token, all)
	if !ok {
		return Result{
			Stage:  StageCategory,
			Status: Rejected,
			Reason: fmt.Sprintf("unknown category %q", token),
		}, nil
	}

	out := make([]domain.Entry, 0, len(p.input))
	for _, e := range p.input {
		if string(e.Event.Type) == category {
			out = append(out, e)
		}
	}
	return Result{Stage: StageCategory, Status: Narrowed, Categories: []string{category}}, out
}

// matchCategory prefers an exact match, then the first category in sorted
// order whose first three characters equal token.
func matchCategory(token string, sorted []string) (string, bool) {
	if slices.Contains(sorted, token) {
		return token, true
	}
	for _, c := range sorted {
		if token == c[:min(3, len(c))] {
			return c, true
		}
	}
	return "", false
}

func (p *Pipeline) applyRange(input string) (Result, []domain.Entry) {
	rs := rangeStages[p.stage]
	b := p.Bounds()
	accepted := Result{Stage: p.stage, Status: AcceptedAll, Min: b.Min, Max: b.Max}

	raw := strings.Split(input, ",")
	if len(raw) != 2 {
		return accepted, nil
	}
	v1, err1 := rs.parse(raw[0])
	v2, err2 := rs.parse(raw[1])
	if err1 != nil || err2 != nil {
		return accepted, nil
	}

	lo, hi := min(v1, v2), max(v1, v2)
	if !(lo > b.Min && hi < b.Max) {
		return Result{
			Stage:  p.stage,
			Status: Rejected,
			Reason: fmt.Sprintf("one or more values out of range <(%s,%s)>",
				strings.TrimSpace(raw[0]), strings.TrimSpace(raw[1])),
		}, nil
	}

	out := make([]domain.Entry, 0, len(p.input))
	for _, e := range p.input {
		if rs.matches(rs.key(e), lo, hi) {
			out = append(out, e)
		}
	}
	return Result{Stage: p.stage, Status: Narrowed, Min: lo, Max: hi}, out
}

func categories(entries []domain.Entry) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		t := string(e.Event.Type)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
