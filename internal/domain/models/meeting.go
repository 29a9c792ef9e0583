// internal/domain/models/meeting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RSVPInfo is the display snapshot stored for each confirmed attendee.
type RSVPInfo struct {
	DisplayName string `bson:"display_name" json:"display_name"`
	AvatarURL   string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
}

// Meeting is a scheduled in-person club meeting.
//
// RSVPs are a map keyed by the attendee's user ObjectID hex; presence of a
// key means "confirmed attending". "Upcoming" vs "past" is never stored —
// it is derived by comparing ScheduledAt to the clock at query time.
type Meeting struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	BookTitle    string              `bson:"book_title" json:"book_title"`
	ScheduledAt  time.Time           `bson:"scheduled_at" json:"scheduled_at"`
	LocationName string              `bson:"location_name" json:"location_name"`
	LocationLink string              `bson:"location_link,omitempty" json:"location_link,omitempty"`
	RSVPs        map[string]RSVPInfo `bson:"rsvps" json:"rsvps"`

	CreatedBy primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsUpcoming reports whether the meeting is at or after now.
func (m Meeting) IsUpcoming(now time.Time) bool {
	return !m.ScheduledAt.Before(now)
}

// HasRSVP reports whether the given user (by ObjectID hex) is attending.
func (m Meeting) HasRSVP(userID string) bool {
	_, ok := m.RSVPs[userID]
	return ok
}

// RSVPCount returns the number of confirmed attendees.
func (m Meeting) RSVPCount() int {
	return len(m.RSVPs)
}
