package database

import "time"

// Form is a saved, named set of answers about a gift recipient.
// It is keyed by (ChatID, Name).
type Form struct {
	ChatID   int64  `db:"chat_id"  validate:"ne=0"`
	Name     string `db:"name"     validate:"notblank"`
	Relation string `db:"relation"`
	Occasion string `db:"occasion"`
	Age      int    `db:"age"      validate:"gte=0,lte=150"`
	Hobbies  string `db:"hobbies"`
	Budget   int    `db:"budget"   validate:"gte=0"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
