package game

// Score tables. These are fixed configuration constants: clients and
// settlement both depend on the exact values.
const (
	scoreGuess1 = 1000
	scoreGuess2 = 800
	scoreGuess3 = 600
	scoreGuess4 = 400
	scoreGuess5 = 300
	scoreGuess6 = 200
	scoreGuess7 = 100
)

// Time-bonus tiers in milliseconds.
const (
	timeBonusTier1 = 30_000
	timeBonusTier2 = 60_000
	timeBonusTier3 = 120_000
	timeBonusTier4 = 300_000

	bonusTier1 = 500
	bonusTier2 = 300
	bonusTier3 = 150
	bonusTier4 = 50
)

// FinalScore computes the score for a completed game: a base from the
// guesses used plus a speed bonus. Unsolved games score zero.
func FinalScore(isSolved bool, guessesUsed uint8, timeMS uint64) uint32 {
	if !isSolved {
		return 0
	}
	return baseScore(guessesUsed) + timeBonus(timeMS)
}

func baseScore(guessesUsed uint8) uint32 {
	switch guessesUsed {
	case 1:
		return scoreGuess1
	case 2:
		return scoreGuess2
	case 3:
		return scoreGuess3
	case 4:
		return scoreGuess4
	case 5:
		return scoreGuess5
	case 6:
		return scoreGuess6
	case 7:
		return scoreGuess7
	default:
		return 0
	}
}

func timeBonus(timeMS uint64) uint32 {
	switch {
	case timeMS < timeBonusTier1:
		return bonusTier1
	case timeMS < timeBonusTier2:
		return bonusTier2
	case timeMS < timeBonusTier3:
		return bonusTier3
	case timeMS < timeBonusTier4:
		return bonusTier4
	default:
		return 0
	}
}
