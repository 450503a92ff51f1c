// Package domain defines the persistence models for face profiles and chat
// turns. These types are mapped with GORM and form the core data layer of
// the FitAi backend.
package domain

import "time"

// Role values allowed for a ChatTurn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Profile represents a registered person: their body stats and the facial
// embedding captured at registration time. Profiles are immutable after
// creation; recognition and chat requests only read them.
//
// Fields:
//   - ID: autoincrement integer primary key, assigned by the store.
//   - Name / Age: basic identity attributes.
//   - Height / Weight: free-form unit-bearing strings ("180cm", "5'11\"",
//     "75kg", "165lbs"). Parsing into metric units happens at request time
//     in the health package, never at write time.
//   - Encoding: the facial embedding as raw little-endian float64 bytes
//     (8 bytes per dimension). At most one embedding per profile.
//   - CreatedAt: timestamp managed by GORM.
type Profile struct {
	ID        uint      `json:"id"       gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name"     gorm:"type:varchar(255);not null;index"`
	Age       int       `json:"age"      gorm:"not null"`
	Height    string    `json:"height"   gorm:"type:varchar(32);not null"`
	Weight    string    `json:"weight"   gorm:"type:varchar(32);not null"`
	Encoding  []byte    `json:"-"        gorm:"type:blob;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string { return "faces" }

// ChatTurn represents a single utterance in a profile's conversation with
// the assistant. Turns are written once and never mutated; ordering within
// a conversation is by CreatedAt (with ID as tiebreaker on reads).
//
// Fields:
//   - ID: autoincrement integer primary key.
//   - ProfileID: foreign key to the owning profile (indexed). Turns are
//     only created for a valid profile; no cascade delete is declared since
//     profiles have no delete path.
//   - Role: "user" or "assistant" (enforced by DB constraint).
//   - Content: full text of the message.
//   - CreatedAt: write-time timestamp used for conversation ordering.
type ChatTurn struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	ProfileID uint      `json:"face_id"    gorm:"not null;index:idx_profile_turns,priority:1"`
	Role      string    `json:"role"       gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"timestamp"  gorm:"index:idx_profile_turns,priority:2"`

	// Profile is the FK association to the owning profile.
	Profile Profile `json:"-" gorm:"foreignKey:ProfileID;references:ID"`
}

// TableName returns the database table name for ChatTurn.
func (ChatTurn) TableName() string { return "messages" }
