package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"frontdoor/internal/console"
	"frontdoor/internal/logger"
	"frontdoor/pkg/doortypes"
	"frontdoor/pkg/house"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Step     int
	As       string
	Line     string
	Found    bool
	Err      error
	Expected []string
	Actual   []string
	// Problem describes why the step failed; empty when it passed.
	Problem string
	Diff    string
}

// Passed reports whether the step met its expectations.
func (r StepResult) Passed() bool { return r.Problem == "" }

// Report collects the results of a script run.
type Report struct {
	Name    string
	Results []StepResult
}

// Failed returns the results that did not pass.
func (r *Report) Failed() []StepResult {
	var failed []StepResult
	for _, res := range r.Results {
		if !res.Passed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Passed reports whether every step passed.
func (r *Report) Passed() bool { return len(r.Failed()) == 0 }

// Runner executes scripts against an engine whose modules are already loaded.
type Runner struct {
	house  *house.House
	logger *log.Logger
}

// NewRunner creates a runner dispatching to h.
func NewRunner(h *house.House) *Runner {
	return &Runner{house: h, logger: logger.NewStyledLogger("Batch")}
}

// Run executes every step of s. Step failures are recorded in the report; the
// error is reserved for scripts that cannot run at all.
func (r *Runner) Run(s *Script) (*Report, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	outputs := make(map[string]*bytes.Buffer, len(s.Invokers))
	users := make(map[string]*console.User, len(s.Invokers))
	for _, spec := range s.Invokers {
		buf := &bytes.Buffer{}
		outputs[spec.Name] = buf
		users[spec.Name] = console.NewUser(spec.Name, buf, spec.Permissions...)
	}

	rooms := make(map[string]*console.Room, len(s.Channels))
	for _, spec := range s.Channels {
		room := console.NewRoom(spec.Name)
		for _, m := range spec.Members {
			room.AddMember(users[m])
		}
		rooms[spec.Name] = room
	}

	report := &Report{Name: s.Name}
	for i, step := range s.Steps {
		for _, buf := range outputs {
			buf.Reset()
		}

		var ch doortypes.Channel = doortypes.NullChannel
		if step.In != "" {
			ch = rooms[step.In]
		}

		res := r.runStep(i+1, step, users[step.As], ch, outputs[step.As])
		if res.Passed() {
			r.logger.Debug("Step passed", "step", res.Step, "line", res.Line)
		} else {
			r.logger.Debug("Step failed", "step", res.Step, "line", res.Line, "problem", res.Problem)
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func (r *Runner) runStep(n int, step Step, user *console.User, ch doortypes.Channel, out *bytes.Buffer) StepResult {
	fields := strings.Fields(step.Run)
	name := strings.TrimPrefix(fields[0], "/")

	res := StepResult{Step: n, As: step.As, Line: step.Run, Expected: step.Expect}
	res.Found, res.Err = r.house.DispatchIn(name, user, ch, fields[1:])
	res.Actual = lines(out.String())

	switch {
	case step.Unknown && res.Found:
		res.Problem = fmt.Sprintf("expected %q to be unknown", name)
	case !step.Unknown && !res.Found:
		res.Problem = fmt.Sprintf("unknown command %q", name)
	case step.Fails && res.Err == nil:
		res.Problem = "expected the handler to fail"
	case !step.Fails && res.Err != nil:
		res.Problem = fmt.Sprintf("unexpected error: %v", res.Err)
	case step.Fails && !errors.Is(res.Err, doortypes.ErrHandlerInvocation):
		res.Problem = fmt.Sprintf("expected a handler failure, got: %v", res.Err)
	case step.Expect != nil && !slices.Equal(step.Expect, res.Actual):
		res.Problem = "output mismatch"
		res.Diff = Diff(strings.Join(step.Expect, "\n"), strings.Join(res.Actual, "\n"))
	}
	return res
}

// lines splits captured output, dropping ANSI sequences so that colored
// prefixes do not leak into comparisons.
func lines(output string) []string {
	output = strings.TrimRight(ansi.Strip(output), "\n")
	if output == "" {
		return []string{}
	}
	return strings.Split(output, "\n")
}

// WriteReport prints a human readable summary of report to w.
func WriteReport(w io.Writer, report *Report) {
	failed := report.Failed()
	for _, res := range failed {
		fmt.Fprintf(w, "FAIL step %d (%s): %s\n", res.Step, res.As, res.Line)
		fmt.Fprintf(w, "  %s\n", res.Problem)
		if res.Diff != "" {
			for _, line := range strings.Split(strings.TrimRight(res.Diff, "\n"), "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
	fmt.Fprintf(w, "%s: %d/%d steps passed\n", report.Name, len(report.Results)-len(failed), len(report.Results))
}
