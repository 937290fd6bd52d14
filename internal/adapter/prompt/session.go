// Package prompt drives the filter pipeline over a line-oriented terminal
// session.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/pipeline"
)

const yes = "yes"

// Session reads queries and confirmations from in and writes prompts and
// results to out.
type Session struct {
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
	closed bool
}

// NewSession creates a session over in and out.
func NewSession(in io.Reader, out io.Writer, logger *slog.Logger) *Session {
	return &Session{
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

// Run walks p through every stage and returns the final working set. Closed
// input accepts all records at each remaining stage and confirms it.
func (s *Session) Run(p *pipeline.Pipeline, cities, quakes int) ([]domain.Entry, error) {
	s.printf("\n*** Earthquake Data ***\n\n")
	s.printf("Acquired data %d cities.\n", cities)
	s.printf("Acquired data %d earthquakes.\n", quakes)

	answer, err := s.ask("Confirm 'yes' in order to be selected? ")
	if err != nil {
		return nil, err
	}
	if answer != yes {
		s.logger.Debug("selection declined, accepting all categories")
		s.printResult(p.Apply(""))
		p.Confirm(true)
	}

	for !p.Done() {
		if err := s.runStage(p); err != nil {
			return nil, err
		}
	}
	return p.Working(), nil
}

func (s *Session) runStage(p *pipeline.Pipeline) error {
	stage := p.Stage()
	s.printBounds(p.Bounds())

	for {
		query, err := s.ask(queryPrompt(stage))
		if err != nil {
			return err
		}
		r := p.Apply(query)
		s.printResult(r)
		if r.Status == pipeline.Rejected {
			continue
		}

		answer, err := s.ask(confirmPrompt(stage))
		if err != nil {
			return err
		}
		if p.Confirm(answer == yes || s.closed) {
			return nil
		}
	}
}

// ask writes prompt and returns the next trimmed input line. Once input is
// exhausted it returns "" and marks the session closed.
func (s *Session) ask(prompt string) (string, error) {
	s.printf("%s", prompt)
	if s.closed {
		s.printf("\n")
		return "", nil
	}
	if s.in.Scan() {
		return strings.TrimSpace(s.in.Text()), nil
	}
	if err := s.in.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	s.closed = true
	s.printf("\n")
	s.logger.Debug("input closed, accepting remaining stages")
	return "", nil
}

func (s *Session) printBounds(b pipeline.Bounds) {
	if b.Stage == pipeline.StageCategory {
		s.printf("\nSELECT tremor type :\n")
		s.printf("Choices are...\n%s\n", strings.Join(b.Categories, ", "))
		return
	}

	s.printf("\nSELECT %s : Enter two values separated by comma\n", b.Stage)
	if b.Empty {
		s.printf("range is empty\n")
		return
	}
	s.printf("range is %s through %s\n",
		pipeline.FormatValue(b.Stage, b.Min), pipeline.FormatValue(b.Stage, b.Max))
}

func (s *Session) printResult(r pipeline.Result) {
	if r.Status == pipeline.Rejected {
		s.printf("%s\n", r.Reason)
		return
	}

	s.printf("Accepted...\n")
	switch {
	case r.Reason != "":
		s.printf("%s\n", r.Reason)
	case r.Stage == pipeline.StageCategory:
		s.printf("%v\n", r.Categories)
	default:
		s.printf("{min: %s, max: %s}\n",
			pipeline.FormatValue(r.Stage, r.Min), pipeline.FormatValue(r.Stage, r.Max))
	}
	s.printf("Selected %d records\n", r.After)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func queryPrompt(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageCategory:
		return "Enter full value or else first 3 characters: "
	case pipeline.StageDate:
		return "\nEnter minimum/maximum date values (MM/DD/YYYY): "
	default:
		return fmt.Sprintf("\nEnter minimum/maximum %s values: ", stage)
	}
}

func confirmPrompt(stage pipeline.Stage) string {
	next := "analysis"
	if stage < pipeline.StageMagnitude {
		next = (stage + 1).String()
	}
	return fmt.Sprintf("\nConfirm 'yes' in order to move to %s? ", next)
}
