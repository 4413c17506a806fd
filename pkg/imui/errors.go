package imui

import (
	stderrors "errors"

	"github.com/vango-dev/imui/internal/errors"
)

// Sentinel errors wrapped by the values a Session panics with on a fatal
// violation. Use errors.Is on the recovered value to tell them apart.
var (
	ErrStackOverflow    = stderrors.New("imui: reconciliation stack overflow")
	ErrUnbalancedPop    = stderrors.New("imui: pop without open container")
	ErrDepthImbalance   = stderrors.New("imui: render ended with open containers")
	ErrReentrantTrigger = stderrors.New("imui: trigger armed while a render is pending or running")
	ErrDuplicateID      = stderrors.New("imui: duplicate sibling id")
	ErrOutsideRender    = stderrors.New("imui: widget declared outside a render pass")
)

var violationCodes = map[error]string{
	ErrStackOverflow:    "E001",
	ErrUnbalancedPop:    "E002",
	ErrDepthImbalance:   "E003",
	ErrReentrantTrigger: "E004",
	ErrDuplicateID:      "E005",
	ErrOutsideRender:    "E006",
}

// violation builds the value a fatal precondition failure panics with.
func violation(sentinel error, format string, args ...any) *errors.Error {
	return errors.New(violationCodes[sentinel]).
		Wrap(sentinel).
		WithDetailf(format, args...)
}

// IsViolation reports whether a recovered panic value is a fatal
// reconciliation violation, and returns it as an error.
func IsViolation(r any) (error, bool) {
	err, ok := r.(*errors.Error)
	if !ok || err.Category != errors.CategoryReconcile {
		return nil, false
	}
	return err, true
}
