package models

import "time"

// Document is implemented by every type stored in a registered collection
type Document interface {
	DocumentID() string
	SetDocumentID(id string)
	Stamp(now time.Time)
	ClearTimestamps()
}

// Base holds the identifier and timestamps shared by all top-level documents
type Base struct {
	ID        string    `bson:"_id" json:"_id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (b *Base) DocumentID() string { return b.ID }

func (b *Base) SetDocumentID(id string) { b.ID = id }

// ClearTimestamps drops client supplied timestamps so the next Stamp sets both
func (b *Base) ClearTimestamps() {
	b.CreatedAt = time.Time{}
	b.UpdatedAt = time.Time{}
}

// Stamp sets createdAt on first use and always refreshes updatedAt
func (b *Base) Stamp(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
