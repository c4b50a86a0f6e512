package domain

// FeedbackOutcome is an explicit correctness judgment reported by a
// caller about an agent's past vote. The engine never infers it.
type FeedbackOutcome string

const (
	FeedbackCorrect   FeedbackOutcome = "correct"
	FeedbackIncorrect FeedbackOutcome = "incorrect"
)

func ValidFeedbackOutcome(o string) bool {
	switch FeedbackOutcome(o) {
	case FeedbackCorrect, FeedbackIncorrect:
		return true
	}
	return false
}
