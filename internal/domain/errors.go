package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Status: 403}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}

// Game-specific validation errors.

func ErrInvalidGuessLength(got int) *AppError {
	return &AppError{
		Code:    "INVALID_GUESS_LENGTH",
		Message: fmt.Sprintf("guess must be exactly %d letters, got %d", WordLength, got),
		Status:  400,
	}
}

func ErrInvalidGuessCharacters() *AppError {
	return &AppError{Code: "INVALID_GUESS_CHARACTERS", Message: "guess must contain only letters A-Z", Status: 400}
}

// State-conflict errors. The caller must re-query and retry with
// corrected intent; none of these leave partial state behind.

func ErrSessionCompleted() *AppError {
	return &AppError{Code: "SESSION_COMPLETED", Message: "game session is already completed", Status: 409}
}

func ErrOutOfGuesses() *AppError {
	return &AppError{Code: "OUT_OF_GUESSES", Message: "no guesses remaining", Status: 409}
}

func ErrAlreadyClaimed() *AppError {
	return &AppError{Code: "ALREADY_CLAIMED", Message: "prize entitlement already claimed", Status: 409}
}

func ErrAlreadyFinalized(entity string) *AppError {
	return &AppError{Code: "ALREADY_FINALIZED", Message: fmt.Sprintf("%s is already finalized", entity), Status: 409}
}

func ErrNotFinalized(entity string) *AppError {
	return &AppError{Code: "NOT_FINALIZED", Message: fmt.Sprintf("%s is not finalized yet", entity), Status: 409}
}

func ErrAlreadyPlayedPeriod(periodID string) *AppError {
	return &AppError{Code: "ALREADY_PLAYED_PERIOD", Message: fmt.Sprintf("already played period %s", periodID), Status: 409}
}

func ErrPeriodNotPaid(periodID string) *AppError {
	return &AppError{Code: "PERIOD_NOT_PAID", Message: fmt.Sprintf("no entry fee recorded for period %s", periodID), Status: 409}
}

func ErrAccountLocked(msg string) *AppError {
	return &AppError{Code: "ACCOUNT_LOCKED", Message: msg, Status: 423}
}

func ErrGamePaused() *AppError {
	return &AppError{Code: "GAME_PAUSED", Message: "game is currently paused", Status: 409}
}

// Resource errors.

func ErrInsufficientVaultBalance(vault VaultKind, need, have int64) *AppError {
	return &AppError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: fmt.Sprintf("vault %s balance %d below required %d", vault, have, need),
		Status:  400,
	}
}
