package sheet

import "fmt"

// ValidationError reports an answer sheet that breaks the length or symbol
// invariant. It always points at a pipeline defect, never at bad input.
type ValidationError struct {
	// Index is the offending position, or -1 for a length mismatch.
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return "invalid answer sheet: " + e.Reason
	}
	return fmt.Sprintf("invalid answer sheet at question %d: %s", e.Index+1, e.Reason)
}

// Validate checks that sheet has exactly total entries, each in A-D or None.
func Validate(sheet AnswerSheet, total int) error {
	if len(sheet) != total {
		return &ValidationError{
			Index:  -1,
			Reason: fmt.Sprintf("expected %d answers, got %d", total, len(sheet)),
		}
	}
	for i, o := range sheet {
		if !o.Valid() {
			return &ValidationError{
				Index:  i,
				Reason: fmt.Sprintf("unknown option code %d", uint8(o)),
			}
		}
	}
	return nil
}
