package domain

// Record-size limits. The storage substrate constrains every record to
// a fixed maximum footprint, so all collections carry an explicit cap.
const (
	WordLength      = 6
	MaxGuesses      = 7
	MaxKeystrokes   = 200
	MaxAchievements = 10

	MaxSessionIDLength = 50
	MaxPeriodIDLength  = 20
	MaxUsernameLength  = 32

	// Leaderboard capacities per granularity.
	TopLeaderboardCapacity  = 10
	BulkLeaderboardCapacity = 100

	// Winners paid out per period.
	TopWinnersCount = 3

	// Basis-point denominator for all splits.
	BasisPointsTotal = 10000
)
