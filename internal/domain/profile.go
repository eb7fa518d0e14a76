package domain

import "time"

// MaxInteractionLog is how many interactions a profile keeps
const MaxInteractionLog = 50

// DefaultCommunicationStyle is assigned to new profiles
const DefaultCommunicationStyle = "friendly"

// UserProfile accumulates coarse preference signals for one chat session
type UserProfile struct {
	SessionID           string        `json:"session_id"`
	PreferredCategories []string      `json:"preferred_categories"`
	BudgetRange         BudgetTier    `json:"budget_range"`
	CommunicationStyle  string        `json:"communication_style"`
	InteractionLog      []Interaction `json:"interaction_log"`
	Preferences         Preferences   `json:"preferences"`
	CreatedAt           time.Time     `json:"created_at"`
	LastInteraction     time.Time     `json:"last_interaction,omitempty"`
}

// Preferences holds the accumulated preference history
type Preferences struct {
	Categories []string `json:"categories"`
}

// Interaction is one entry of the profile's interaction log
type Interaction struct {
	Timestamp    time.Time `json:"timestamp"`
	Intent       string    `json:"intent"`
	Satisfaction *int      `json:"satisfaction,omitempty"`
}

// ProfileUpdate carries the signals learned from one turn
type ProfileUpdate struct {
	Intent             string
	CategoryPreference string
	BudgetRange        BudgetTier
	Satisfaction       *int
}

// NewUserProfile returns the default profile for a session
func NewUserProfile(sessionID string, now time.Time) *UserProfile {
	return &UserProfile{
		SessionID:           sessionID,
		PreferredCategories: []string{},
		BudgetRange:         BudgetUnknown,
		CommunicationStyle:  DefaultCommunicationStyle,
		InteractionLog:      []Interaction{},
		Preferences:         Preferences{Categories: []string{}},
		CreatedAt:           now,
	}
}

// PreferredSlugs expands preferred categories into taxonomy slugs.
// Entries that are not category labels are treated as raw slugs.
func (p *UserProfile) PreferredSlugs() []string {
	if p == nil {
		return nil
	}
	var slugs []string
	for _, c := range p.PreferredCategories {
		if mapped := Category(c).Slugs(); mapped != nil {
			slugs = append(slugs, mapped...)
			continue
		}
		slugs = append(slugs, c)
	}
	return slugs
}
