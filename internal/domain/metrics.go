package domain

// Metrics aggregates the decision history. ConsensusRate counts only
// approved and rejected outcomes in the numerator; timeouts and
// insufficient-votes outcomes still count toward Total.
type Metrics struct {
	Total             int     `json:"total"`
	Approved          int     `json:"approved"`
	Rejected          int     `json:"rejected"`
	Timeouts          int     `json:"timeouts"`
	InsufficientVotes int     `json:"insufficient_votes"`
	AvgResolutionMs   float64 `json:"avg_resolution_ms"`
	ConsensusRate     float64 `json:"consensus_rate"`
}
