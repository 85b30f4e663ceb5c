package bookingRepo

import "huduma/models"

// BookingRepository provides the booking reads and payment-outcome writes
// the quote flow needs. The booking lifecycle beyond these is owned by the
// wider platform.
type BookingRepository interface {
	GetByID(id string) (*models.Booking, error)
	// MarkScheduled records a whole-booking payment: status becomes
	// confirmed, the selected date/slot are fixed, and the paid amount and
	// method are recorded.
	MarkScheduled(id, date, slot string, amount float64, method string) error
	// MarkSegmentPaid flips the given segment to paid with the method used.
	MarkSegmentPaid(id string, sequence int, method string) error
}
