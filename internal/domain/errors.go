package domain

import "errors"

var (
	// ErrUserNotFound is returned when a platform user has never interacted with the bot.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when registering a user id twice.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidProgress indicates a progress value outside 0..TotalQuestions.
	ErrInvalidProgress = errors.New("invalid quiz progress")
	// ErrQuestionNotFound means the question seed data is incomplete.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidSignature is returned when a webhook delivery fails signature validation.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrInvalidSeed indicates a malformed question seed file.
	ErrInvalidSeed = errors.New("invalid question seed")
)
