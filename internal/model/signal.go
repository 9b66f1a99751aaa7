package model

import "fmt"

// Recommendation is the directional call, ordered from most bearish to most bullish.
type Recommendation int

const (
	StrongSell Recommendation = iota
	Sell
	Hold
	Buy
	StrongBuy
)

var recommendationNames = map[Recommendation]string{
	StrongSell: "STRONG_SELL",
	Sell:       "SELL",
	Hold:       "HOLD",
	Buy:        "BUY",
	StrongBuy:  "STRONG_BUY",
}

func (r Recommendation) String() string {
	if s, ok := recommendationNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Recommendation(%d)", int(r))
}

func (r Recommendation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Recommendation) UnmarshalText(text []byte) error {
	for k, v := range recommendationNames {
		if v == string(text) {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("unknown recommendation %q", string(text))
}

// Severity is the presentation tag attached to a recommendation.
type Severity string

const (
	SeverityGreen      Severity = "green"
	SeverityLightGreen Severity = "lightgreen"
	SeverityGray       Severity = "gray"
	SeverityOrange     Severity = "orange"
	SeverityRed        Severity = "red"
)

// SeverityFor returns the fixed severity of a recommendation.
func SeverityFor(r Recommendation) Severity {
	switch r {
	case StrongBuy:
		return SeverityGreen
	case Buy:
		return SeverityLightGreen
	case Sell:
		return SeverityOrange
	case StrongSell:
		return SeverityRed
	default:
		return SeverityGray
	}
}

// SignalFinding is one rule's contribution to the score.
type SignalFinding struct {
	Label       string `json:"label"`
	Explanation string `json:"explanation"`
	Weight      int    `json:"weight"`
}

// SignalResult is the output of a scoring profile.
type SignalResult struct {
	Profile        string          `json:"profile"`
	Recommendation Recommendation  `json:"recommendation"`
	Label          string          `json:"label"`
	Rationale      string          `json:"rationale"`
	Severity       Severity        `json:"severity"`
	Findings       []SignalFinding `json:"findings"`
	Score          int             `json:"score"`
}

// TopFindings returns at most n findings in evaluation order.
func (s SignalResult) TopFindings(n int) []SignalFinding {
	if n < 0 {
		n = 0
	}
	if len(s.Findings) <= n {
		return s.Findings
	}
	return s.Findings[:n]
}
