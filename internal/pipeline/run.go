package pipeline

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/quake-impact/internal/domain"
)

// Queries holds one raw query per stage for a non-interactive run. Empty
// fields accept every record at that stage.
type Queries struct {
	Category  string
	Latitude  string
	Longitude string
	Date      string
	Magnitude string
}

// For returns the query for stage.
func (q Queries) For(stage Stage) string {
	switch stage {
	case StageCategory:
		return q.Category
	case StageLatitude:
		return q.Latitude
	case StageLongitude:
		return q.Longitude
	case StageDate:
		return q.Date
	case StageMagnitude:
		return q.Magnitude
	default:
		return ""
	}
}

// RejectedError is returned by Run when a stage rejects its query.
type RejectedError struct {
	Result Result
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s stage rejected query: %s", e.Result.Stage, e.Result.Reason)
}

// IsRejected reports whether err is, or wraps, a *RejectedError.
func IsRejected(err error) bool {
	var rerr *RejectedError
	return errors.As(err, &rerr)
}

// Run applies and confirms each stage's query in order and returns the final
// working set with every stage result. It stops at the first rejection.
func (p *Pipeline) Run(q Queries) ([]domain.Entry, []Result, error) {
	results := make([]Result, 0, stageCount)
	for !p.done {
		r := p.Apply(q.For(p.stage))
		results = append(results, r)
		if r.Status == Rejected {
			return nil, results, &RejectedError{Result: r}
		}
		p.Confirm(true)
	}
	return p.Working(), results, nil
}
