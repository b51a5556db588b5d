package sheet

import "strings"

// AnswerSheet is the ordered list of decisions, one per question.
type AnswerSheet []OptionCode

// Build fits decisions into a sheet of exactly total questions.
//
// Missing trailing questions are padded with None and extra decisions are
// dropped, so the length invariant holds however many rows were detected.
func Build(codes []OptionCode, total int) AnswerSheet {
	if total < 0 {
		total = 0
	}
	sheet := make(AnswerSheet, total)
	copy(sheet, codes)
	return sheet
}

// Attempted counts the questions with a mark.
func (s AnswerSheet) Attempted() int {
	n := 0
	for _, o := range s {
		if o != None {
			n++
		}
	}
	return n
}

// Strings returns the letters of the sheet, "" for None.
func (s AnswerSheet) Strings() []string {
	out := make([]string, len(s))
	for i, o := range s {
		out[i] = o.String()
	}
	return out
}

// String renders the sheet compactly, one character per question, "-" for None.
func (s AnswerSheet) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, o := range s {
		if o == None {
			b.WriteByte('-')
			continue
		}
		b.WriteString(o.String())
	}
	return b.String()
}
