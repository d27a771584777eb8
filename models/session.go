package models

import "time"

// Session is the per-user state carried through the pipeline
// Pending holds manual inputs keyed by FieldKey that are not applied until confirmation
type Session struct {
	ID        string            `json:"id"`
	Record    *GarmentRecord    `json:"record"`
	Pending   map[string]string `json:"pending"`
	Confirmed bool              `json:"confirmed"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewSession creates an unconfirmed session for a freshly extracted record
func NewSession(id string, record *GarmentRecord, now time.Time) *Session {
	return &Session{
		ID:        id,
		Record:    record,
		Pending:   map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Record = s.Record.Clone()
	out.Pending = make(map[string]string, len(s.Pending))
	for k, v := range s.Pending {
		out.Pending[k] = v
	}
	return &out
}

// FieldPrompt is one editable input shown to the user
type FieldPrompt struct {
	Key   string `json:"key"`
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// SessionView is the JSON shape returned to clients
// The image and raw model text are not part of the view
type SessionView struct {
	ID        string            `json:"id"`
	Confirmed bool              `json:"confirmed"`
	Fields    []Column          `json:"fields"`
	Prompts   []FieldPrompt     `json:"prompts"`
	Pending   map[string]string `json:"pending,omitempty"`
	ImageURL  string            `json:"imageUrl"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// AddFieldRequest represents the request body for adding a user field
type AddFieldRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
