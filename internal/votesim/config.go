package votesim

import "time"

// Config holds configuration for the vote load test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumVotes   int           // Number of votes to drive through the API
	Voters     int           // Number of distinct voter identities
	TopN       int           // Number of top entries to fetch from the leaderboard
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Categories []string      // Optional category filter for matchup requests
	Bias       float64       // Probability of voting for the higher-rated side
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// player mirrors one entry of the GET /players response.
type player struct {
	ID           string  `json:"id"`
	Rating       float64 `json:"rating"`
	Category     string  `json:"category"`
	CategoryRank int     `json:"category_rank"`
}

// matchupView mirrors the POST /matchup and POST /next response.
type matchupView struct {
	MatchupID string `json:"matchup_id"`
	First     player `json:"first"`
	Second    player `json:"second"`
	Warning   string `json:"warning"`
}

// sessionResponse mirrors the POST /session response.
type sessionResponse struct {
	SessionID string `json:"session_id"`
}

// leaderboardEntry mirrors one row of the GET /leaderboard response.
type leaderboardEntry struct {
	Rank      int     `json:"rank"`
	Username  string  `json:"username"`
	Votes     float64 `json:"votes"`
	LastVoted string  `json:"last_voted"`
}

// Stats holds test statistics. Counter fields are updated atomically
// by the concurrent workers.
type Stats struct {
	SessionsCreated    int64
	VotesAttempted     int64
	VotesAccepted      int64
	VotesRejected      int64
	MatchupsServed     int64
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
