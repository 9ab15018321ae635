package schema

import "time"

const SessionCollection = "sessions"

// Session keeps the last prediction of one browser session
type Session struct {
	ID        string      `json:"id" bson:"_id"`
	Last      *Prediction `json:"last,omitempty" bson:"last,omitempty"`
	Previous  *Prediction `json:"previous,omitempty" bson:"previous,omitempty"`
	ExpiresAt time.Time   `json:"expires_at" bson:"expires_at"`
}

// Record pushes p as the latest prediction and keeps the one it replaces.
func (s *Session) Record(p *Prediction) {
	s.Previous = s.Last
	s.Last = p
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
