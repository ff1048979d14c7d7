package billing

import (
	"errors"
	"fmt"
	"strings"
)

// Step names one write in a multi-step invoice operation
type Step string

const (
	StepSaveInvoice   Step = "save_invoice"
	StepAdjustStock   Step = "adjust_stock"
	StepAdjustBalance Step = "adjust_balance"
	StepWriteAudit    Step = "write_audit"
	StepCommit        Step = "commit"
)

// StepError reports how far a multi-step operation got before failing.
// When RolledBack is false the Completed steps are persisted and need
// reconciliation.
type StepError struct {
	Operation  string
	Completed  []Step
	Failed     Step
	RolledBack bool
	Err        error
}

func (e *StepError) Error() string {
	done := make([]string, len(e.Completed))
	for i, s := range e.Completed {
		done[i] = string(s)
	}
	return fmt.Sprintf("%s failed at %s (completed: [%s], rolled back: %t): %v",
		e.Operation, e.Failed, strings.Join(done, ", "), e.RolledBack, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// stepRunner records completed steps and wraps the first failure
type stepRunner struct {
	operation string
	completed []Step
}

func newStepRunner(operation string) *stepRunner {
	return &stepRunner{operation: operation}
}

func (r *stepRunner) run(step Step, fn func() error) error {
	if err := fn(); err != nil {
		return &StepError{
			Operation: r.operation,
			Completed: append([]Step(nil), r.completed...),
			Failed:    step,
			Err:       err,
		}
	}
	r.completed = append(r.completed, step)
	return nil
}

// finish stamps RolledBack on a StepError coming out of a scope. A failure
// after every step succeeded happened at commit and is reported as such.
func (r *stepRunner) finish(err error, atomic bool) error {
	if err == nil {
		return nil
	}
	var se *StepError
	if errors.As(err, &se) {
		se.RolledBack = atomic
		return se
	}
	if len(r.completed) == 0 {
		return err
	}
	return &StepError{
		Operation:  r.operation,
		Completed:  append([]Step(nil), r.completed...),
		Failed:     StepCommit,
		RolledBack: atomic,
		Err:        err,
	}
}
