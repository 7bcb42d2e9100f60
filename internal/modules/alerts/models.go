// Package alerts keeps user-defined metric alerts in memory.
package alerts

import "time"

// Alert types, named after the snapshot metric they watch.
const (
	TypePrice           = "price"
	TypeVolume          = "volume"
	TypeMarketCap       = "market_cap"
	TypeSentiment       = "sentiment"
	TypeGalaxyScore     = "galaxy_score"
	TypeSocialDominance = "social_dominance"
)

// Conditions compare the metric against the alert value.
const (
	ConditionAbove = "above"
	ConditionBelow = "below"
)

// Priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var (
	validTypes = map[string]bool{
		TypePrice: true, TypeVolume: true, TypeMarketCap: true,
		TypeSentiment: true, TypeGalaxyScore: true, TypeSocialDominance: true,
	}
	validConditions = map[string]bool{ConditionAbove: true, ConditionBelow: true}
	validPriorities = map[string]bool{PriorityLow: true, PriorityMedium: true, PriorityHigh: true}
)

// Alert is one configured condition.
type Alert struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Condition   string     `json:"condition"`
	Value       float64    `json:"value"`
	Priority    string     `json:"priority"`
	IsActive    bool       `json:"isActive"`
	IsTriggered bool       `json:"isTriggered"`
	CreatedAt   time.Time  `json:"createdAt"`
	TriggeredAt *time.Time `json:"triggeredAt,omitempty"`
}

// Holds reports whether value satisfies the alert condition.
func (a Alert) Holds(value float64) bool {
	switch a.Condition {
	case ConditionAbove:
		return value > a.Value
	case ConditionBelow:
		return value < a.Value
	default:
		return false
	}
}

// CreateRequest is the input of Store.Create.
type CreateRequest struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Condition string  `json:"condition"`
	Value     float64 `json:"value"`
	Priority  string  `json:"priority"`
}
