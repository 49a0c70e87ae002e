package domain

import (
	"strings"
	"time"
)

const (
	// TotalQuestions is the fixed length of the quiz.
	TotalQuestions = 10
	// PassScore is the lowest final score that earns the congratulation reply.
	PassScore = 8
	// StartTrigger begins or restarts the quiz (matched case-insensitively).
	StartTrigger = "MULAI"
)

// User is a registered bot follower and their quiz progress.
// Number is 0 when no quiz is running, otherwise the question awaiting an answer.
type User struct {
	UserID      string
	DisplayName string
	Number      int
	Score       int
}

// Started reports whether the user is in the middle of a quiz.
func (u User) Started() bool {
	return u.Number > 0
}

// ValidProgress reports whether n is a storable progress value.
func ValidProgress(n int) bool {
	return n >= 0 && n <= TotalQuestions
}

// IsStartTrigger reports whether text asks to (re)start the quiz.
func IsStartTrigger(text string) bool {
	return strings.EqualFold(text, StartTrigger)
}

// Passed reports whether a final score earns the congratulation branch.
func Passed(score int) bool {
	return score >= PassScore
}

// Question is one read-only quiz item. Empty options are not offered to users.
type Question struct {
	Number  int
	Text    string
	Image   string
	OptionA string
	OptionB string
	OptionC string
	OptionD string
	Answer  string
}

// Choices returns the non-empty options in a..d order.
func (q Question) Choices() []string {
	choices := make([]string, 0, 4)
	for _, opt := range []string{q.OptionA, q.OptionB, q.OptionC, q.OptionD} {
		if opt != "" {
			choices = append(choices, opt)
		}
	}
	return choices
}

// IsCorrect compares a submission with the stored answer. No normalization is applied.
func (q Question) IsCorrect(answer string) bool {
	return q.Answer == answer
}

// EventLogEntry is one raw webhook delivery kept for auditing.
type EventLogEntry struct {
	Signature string
	Events    string
}

// Profile is the platform-side identity of a user.
type Profile struct {
	UserID      string
	DisplayName string
}

// QuizResult is published when a user answers the last question.
type QuizResult struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Passed      bool      `json:"passed"`
	CompletedAt time.Time `json:"completedAt"`
}
