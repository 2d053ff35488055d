package models

// PlayerStats is the normalized record returned for a player profile.
// Every numeric field is nullable: a nil pointer means the page did not
// expose the statistic, which is not an error.
type PlayerStats struct {
	// Username is read from the resolved page location, not the request.
	Username string `json:"username"`

	ProfileURL     string  `json:"profileUrl"`
	ProfilePicture *string `json:"profilePicture"`

	Streaks      Streaks      `json:"streaks"`
	BattleStats  BattleStats  `json:"battleStats"`
	DailyTargets DailyTargets `json:"dailyTargets"`
	Versus       Versus       `json:"versus"`
}

// Streaks holds daily-play streak counters.
type Streaks struct {
	Current *int `json:"current"`
	Longest *int `json:"longest"`
}

// BattleStats holds the battle leaderboard statistics.
type BattleStats struct {
	GlobalRank    *int     `json:"globalRank"`
	TargetsPlayed *int     `json:"targetsPlayed"`
	TotalScore    *float64 `json:"totalScore"`
}

// DailyTargets holds the daily-targets statistics.
type DailyTargets struct {
	TargetsPlayed *int     `json:"targetsPlayed"`
	AvgMatch      *float64 `json:"avgMatch"`
	AvgCharacters *int     `json:"avgCharacters"`
}

// Versus holds head-to-head statistics.
type Versus struct {
	Rating      *int `json:"rating"`
	GamesPlayed *int `json:"gamesPlayed"`
	Wins        *int `json:"wins"`
}
