package models

import "time"

// User is the minimal user projection the flow service needs: identity and
// the FCM token for payment pushes. Full user management lives elsewhere.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	FCMToken  string    `bson:"fcm_token,omitempty" json:"fcmToken,omitempty"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
