// Package scoring grades an answer sheet against an answer key.
//
// The marking scheme is fixed: +3 for a correct answer, -1 for a wrong one and
// 0 for an unattempted question.
package scoring

import (
	"fmt"
	"strings"

	"github.com/ironsheep/omr-grader-mcp/internal/sheet"
)

// Marks awarded per question.
const (
	CorrectMarks   = 3
	IncorrectMarks = -1
)

// Result is the score breakdown of one sheet.
//
// Correct + Incorrect + Unattempted always equals TotalQuestions.
type Result struct {
	TotalScore     int `json:"total_score"`
	Correct        int `json:"correct"`
	Incorrect      int `json:"incorrect"`
	Unattempted    int `json:"unattempted"`
	TotalQuestions int `json:"total_questions"`
	MaxScore       int `json:"max_score"`
}

// KeyLengthError reports an answer key that does not line up with the sheet.
type KeyLengthError struct {
	Answers int
	Key     int
}

func (e *KeyLengthError) Error() string {
	return fmt.Sprintf("answer key has %d entries, sheet has %d", e.Key, e.Answers)
}

// Score grades answers against key position by position.
//
// An unanswered question scores 0 whatever the key holds. An answered question
// scores +3 when it matches the key and -1 otherwise, including when the key
// entry itself is blank.
func Score(answers, key sheet.AnswerSheet) (Result, error) {
	if len(answers) != len(key) {
		return Result{}, &KeyLengthError{Answers: len(answers), Key: len(key)}
	}

	r := Result{
		TotalQuestions: len(answers),
		MaxScore:       CorrectMarks * len(answers),
	}
	for i, given := range answers {
		switch {
		case given == sheet.None:
			r.Unattempted++
		case given == key[i]:
			r.Correct++
			r.TotalScore += CorrectMarks
		default:
			r.Incorrect++
			r.TotalScore += IncorrectMarks
		}
	}
	return r, nil
}

// ParseKey reads an answer key.
//
// Entries may be separated by commas, whitespace or both ("A,B,C", "A B C").
// A string without separators is read one letter per question ("ABCD"), with
// "-" standing for a blank entry.
func ParseKey(s string) (sheet.AnswerSheet, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("answer key is empty")
	}

	var fields []string
	if strings.ContainsAny(s, ", \t\n\r") {
		fields = strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
	} else {
		fields = strings.Split(s, "")
	}

	key := make(sheet.AnswerSheet, len(fields))
	for i, f := range fields {
		o, err := sheet.ParseOption(f)
		if err != nil {
			return nil, fmt.Errorf("answer key entry %d: %w", i+1, err)
		}
		key[i] = o
	}
	return key, nil
}

// DemoKey returns the cyclic A, B, C, D... key used for demos and smoke tests.
func DemoKey(total int) sheet.AnswerSheet {
	if total < 0 {
		total = 0
	}
	key := make(sheet.AnswerSheet, total)
	for i := range key {
		key[i] = sheet.OptionFromIndex(i % sheet.MaxOptions)
	}
	return key
}
