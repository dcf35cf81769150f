package gamification

import "errors"

// Domain errors returned to callers. These are expected outcomes the HTTP
// layer maps to statuses; none of them is fatal to the engine.
var (
	ErrQuestNotFound       = errors.New("quest not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidInput        = errors.New("invalid input")
)
