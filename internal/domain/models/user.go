// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User mirrors the identity fields we receive from Google sign-in.
//
// NOTE:
//   - A user document is created on first sign-in and has its profile
//     fields and UpdatedAt refreshed on every subsequent sign-in.
//   - Shelf entries and RSVPs reference users by ObjectID; GoogleID is
//     only used to match the OAuth principal to a document.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GoogleID      string             `bson:"google_id" json:"google_id"`
	Email         string             `bson:"email" json:"email"`
	DisplayName   string             `bson:"display_name" json:"display_name"`
	DisplayNameCI string             `bson:"display_name_ci" json:"display_name_ci"` // lowercase, diacritics-stripped
	AvatarURL     string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
