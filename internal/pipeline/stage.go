package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/quake-impact/internal/domain"
)

// Stage identifies one step of the filter pipeline.
type Stage int

// Stages always run in this order.
const (
	StageCategory Stage = iota
	StageLatitude
	StageLongitude
	StageDate
	StageMagnitude
)

const stageCount = 5

var stageNames = [stageCount]string{"category", "latitude", "longitude", "date", "magnitude"}

func (s Stage) String() string {
	if s < 0 || int(s) >= stageCount {
		return "stage(" + strconv.Itoa(int(s)) + ")"
	}
	return stageNames[s]
}

// Stages returns every stage in execution order.
func Stages() []Stage {
	return []Stage{StageCategory, StageLatitude, StageLongitude, StageDate, StageMagnitude}
}

// queryDateLayout accepts both padded and unpadded month/day.
const queryDateLayout = "1/2/2006"

// rangeStage describes how a numeric stage reads, parses and compares values.
// Date values are the Unix seconds of the calendar day.
type rangeStage struct {
	key       func(domain.Entry) float64
	parse     func(string) (float64, error)
	inclusive bool
}

var rangeStages = map[Stage]rangeStage{
	StageLatitude: {
		key:   func(e domain.Entry) float64 { return e.Point.Lat },
		parse: parseFloat,
	},
	StageLongitude: {
		key:   func(e domain.Entry) float64 { return e.Point.Lon },
		parse: parseFloat,
	},
	StageDate: {
		key:       func(e domain.Entry) float64 { return dayValue(e.Event.OccurredAt) },
		parse:     parseDate,
		inclusive: true,
	},
	StageMagnitude: {
		key:       func(e domain.Entry) float64 { return e.Event.Magnitude },
		parse:     parseFloat,
		inclusive: true,
	},
}

func (rs rangeStage) matches(v, lo, hi float64) bool {
	if rs.inclusive {
		return lo <= v && v <= hi
	}
	return lo < v && v < hi
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseDate(s string) (float64, error) {
	t, err := time.ParseInLocation(queryDateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return 0, err
	}
	return dayValue(t), nil
}

func dayValue(t time.Time) float64 {
	return float64(domain.CalendarDay(t).Unix())
}

// FormatValue renders a stage value for display. Dates use MM/DD/YYYY.
func FormatValue(stage Stage, v float64) string {
	if stage == StageDate {
		return time.Unix(int64(v), 0).UTC().Format(domain.QueryDateLayout)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
