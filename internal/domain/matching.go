package domain

type MatchStatus string

const (
	MatchFull    MatchStatus = "full"
	MatchPartial MatchStatus = "partial"
	MatchNone    MatchStatus = "none"
)

type CriteriaMatches struct {
	Income    bool `json:"income"`
	Status    bool `json:"status"`
	Age       bool `json:"age"`
	Guarantor bool `json:"guarantor"`
}

// MatchingResult is derived on demand and never persisted.
type MatchingResult struct {
	Status  MatchStatus     `json:"status"`
	Matches CriteriaMatches `json:"matches"`
}

// ApplicationWithMatch pairs an application with its score against the property.
type ApplicationWithMatch struct {
	Application
	Match MatchingResult `json:"match"`
}
