package models

// Participant is the sole persistent entity: one enrolled person, keyed
// by E.164 phone number.
type Participant struct {
	Phone         string   `json:"phone"`
	Name          string   `json:"name"`
	Address       string   `json:"address,omitempty"`
	GiftPurchased bool     `json:"gift_purchased"`
	Assigned      string   `json:"assigned,omitempty"`
	CannotMatch   []string `json:"cannot_match,omitempty"`
}

// ExchangeState is the participant's position in the exchange, derived
// from the stored record rather than persisted on its own.
type ExchangeState int

const (
	// StateAwaitingAssignment means no bulk-assignment run has reached
	// this participant yet.
	StateAwaitingAssignment ExchangeState = iota
	StateAssignedNotGifted
	StateAssignedGifted
)

func (s ExchangeState) String() string {
	switch s {
	case StateAwaitingAssignment:
		return "awaiting_assignment"
	case StateAssignedNotGifted:
		return "assigned_not_gifted"
	case StateAssignedGifted:
		return "assigned_gifted"
	default:
		return "unknown"
	}
}

// State derives the exchange state from the record.
func (p *Participant) State() ExchangeState {
	if p.Assigned == "" {
		return StateAwaitingAssignment
	}
	if p.GiftPurchased {
		return StateAssignedGifted
	}
	return StateAssignedNotGifted
}

// MarkGifted records the gift as purchased. Idempotent; never touches
// the assignment. Reports whether the flag changed.
func (p *Participant) MarkGifted() bool {
	if p.GiftPurchased {
		return false
	}
	p.GiftPurchased = true
	return true
}

// ResetGift clears the purchased flag. Idempotent; never touches the
// assignment. Reports whether the flag changed.
func (p *Participant) ResetGift() bool {
	if !p.GiftPurchased {
		return false
	}
	p.GiftPurchased = false
	return true
}

// MayBeAssigned reports whether phone is an acceptable recipient for
// this participant: not themselves and not on their cannot-match list.
func (p *Participant) MayBeAssigned(phone string) bool {
	if phone == p.Phone {
		return false
	}
	for _, forbidden := range p.CannotMatch {
		if forbidden == phone {
			return false
		}
	}
	return true
}
