package domain

import "fmt"

// Branch names the handler selected by the branch decision.
type Branch string

const (
	// BranchGreater is selected when the generated number exceeds the target.
	BranchGreater Branch = "greater"

	// BranchLessOrEqual is selected for every other numeric outcome,
	// including ties.
	BranchLessOrEqual Branch = "lessOrEqual"
)

// Valid reports whether b is one of the known branches.
func (b Branch) Valid() bool {
	return b == BranchGreater || b == BranchLessOrEqual
}

// String returns the wire name of the branch.
func (b Branch) String() string { return string(b) }

// BranchResult is produced by exactly one branch handler and becomes the
// workflow's final output.
type BranchResult struct {
	Branch                Branch `json:"branch" validate:"required,oneof=greater lessOrEqual"`
	Message               string `json:"message" validate:"required"`
	GeneratedRandomNumber int    `json:"generatedRandomNumber"`
	MaxNumber             int    `json:"maxNumber"`
	NumberToCheck         int    `json:"numberToCheck"`
}

// NewBranchResult builds the result for branch b from the generated record.
func NewBranchResult(b Branch, r GeneratedNumberRecord) BranchResult {
	var msg string
	switch b {
	case BranchGreater:
		msg = fmt.Sprintf("%d is greater than %d", r.GeneratedRandomNumber, r.NumberToCheck)
	default:
		msg = fmt.Sprintf("%d is less than or equal to %d", r.GeneratedRandomNumber, r.NumberToCheck)
	}
	return BranchResult{
		Branch:                b,
		Message:               msg,
		GeneratedRandomNumber: r.GeneratedRandomNumber,
		MaxNumber:             r.MaxNumber,
		NumberToCheck:         r.NumberToCheck,
	}
}

// Validate checks that the result names a known branch and carries a message.
func (r BranchResult) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResult, err)
	}
	return nil
}
