package models

// SegmentReminderPayload is the queued payload for a segment due-date push.
type SegmentReminderPayload struct {
	UserID    string  `json:"userId"`
	BookingID string  `json:"bookingId"`
	Sequence  int     `json:"sequence"`
	Amount    float64 `json:"amount"`
	FireDate  string  `json:"fireDate"`
}
