package domain

import (
	"fmt"
	"regexp"
)

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,32}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrValidation("email is required")
	}
	if !emailRegex.MatchString(email) {
		return ErrValidation("invalid email format")
	}
	return nil
}

// ValidateUsername checks display-name bounds and characters.
func ValidateUsername(username string) error {
	if username == "" {
		return ErrValidation("username is required")
	}
	if len(username) > MaxUsernameLength {
		return ErrValidation(fmt.Sprintf("username exceeds %d characters", MaxUsernameLength))
	}
	if !usernameRegex.MatchString(username) {
		return ErrValidation("username may contain only letters, digits, underscore and hyphen")
	}
	return nil
}

// ValidatePeriodID checks period-id bounds.
func ValidatePeriodID(periodID string) error {
	if periodID == "" {
		return ErrValidation("period id is required")
	}
	if len(periodID) > MaxPeriodIDLength {
		return ErrValidation(fmt.Sprintf("period id exceeds %d characters", MaxPeriodIDLength))
	}
	return nil
}

// ValidateSessionID checks session-id bounds.
func ValidateSessionID(sessionID string) error {
	if sessionID == "" {
		return ErrValidation("session id is required")
	}
	if len(sessionID) > MaxSessionIDLength {
		return ErrValidation(fmt.Sprintf("session id exceeds %d characters", MaxSessionIDLength))
	}
	return nil
}

// ValidateRank checks a winner rank is within the paid positions.
func ValidateRank(rank uint8) error {
	if rank < 1 || rank > TopWinnersCount {
		return ErrValidation(fmt.Sprintf("rank must be between 1 and %d", TopWinnersCount))
	}
	return nil
}

// ValidatePositiveAmount checks that an amount is positive.
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return ErrValidation(fmt.Sprintf("amount must be positive, got %d", amount))
	}
	return nil
}

// ValidateGuess checks guess length and characters. The guess must
// already be uppercased by the caller.
func ValidateGuess(guess string) error {
	if len(guess) != WordLength {
		return ErrInvalidGuessLength(len(guess))
	}
	for _, c := range guess {
		if c < 'A' || c > 'Z' {
			return ErrInvalidGuessCharacters()
		}
	}
	return nil
}
