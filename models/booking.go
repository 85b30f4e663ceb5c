package models

import (
	"sort"
	"time"
)

// BookingStatus is the server-owned lifecycle status of a booking.
type BookingStatus string

const (
	StatusPending       BookingStatus = "pending"
	StatusQuoteProvided BookingStatus = "quote_provided"
	StatusQuoteAccepted BookingStatus = "quote_accepted"
	StatusConfirmed     BookingStatus = "confirmed"
	StatusScheduled     BookingStatus = "scheduled"
	StatusAssigned      BookingStatus = "assigned"
	StatusInProgress    BookingStatus = "in_progress"
	StatusCompleted     BookingStatus = "completed"
	StatusCancelled     BookingStatus = "cancelled"
	StatusRejected      BookingStatus = "rejected"
	StatusTemporaryHold BookingStatus = "temporary_hold"
)

// Terminal reports whether a booking can no longer accept a quote payment.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// SegmentStatus is the lifecycle status of a single payment segment.
type SegmentStatus string

const (
	SegmentPending   SegmentStatus = "pending"
	SegmentPaid      SegmentStatus = "paid"
	SegmentOverdue   SegmentStatus = "overdue"
	SegmentCancelled SegmentStatus = "cancelled"
)

// PaymentSegment is one installment of a multi-part payment plan tied to a booking.
type PaymentSegment struct {
	Sequence int           `bson:"sequence" json:"sequence"` // 1-based
	Amount   float64       `bson:"amount" json:"amount"`
	Status   SegmentStatus `bson:"status" json:"status"`
	DueDate  *time.Time    `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	PaidAt   *time.Time    `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	Method   string        `bson:"method,omitempty" json:"method,omitempty"`
}

// Booking is a quoted booking record. The quote flow reads it and records
// payment outcomes against it; the rest of its lifecycle is owned elsewhere.
type Booking struct {
	ID                string           `bson:"id" json:"id"`
	UserID            string           `bson:"user_id" json:"userId"`
	ProviderID        string           `bson:"provider_id" json:"providerId"`
	ServiceID         string           `bson:"service_id,omitempty" json:"serviceId,omitempty"`
	Status            BookingStatus    `bson:"status" json:"status"`
	QuoteAmount       float64          `bson:"quote_amount,omitempty" json:"quoteAmount,omitempty"`
	QuoteDurationMins int              `bson:"quote_duration_mins,omitempty" json:"quoteDurationMins,omitempty"`
	PaymentSegments   []PaymentSegment `bson:"payment_segments,omitempty" json:"paymentSegments,omitempty"`
	ScheduledDate     string           `bson:"scheduled_date,omitempty" json:"scheduledDate,omitempty"` // "YYYY-MM-DD"
	ScheduledSlot     string           `bson:"scheduled_slot,omitempty" json:"scheduledSlot,omitempty"` // e.g. "10:00-12:00"
	PaidAmount        float64          `bson:"paid_amount,omitempty" json:"paidAmount,omitempty"`
	PaymentMethod     string           `bson:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	CreatedAt         time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time        `bson:"updated_at" json:"updatedAt"`
}

// Segmented reports whether the booking carries any payment segments.
func (b *Booking) Segmented() bool {
	return len(b.PaymentSegments) > 0
}

// MultiSegment reports whether the booking carries more than one payment
// segment. Such bookings skip date/time selection entirely: scheduling was
// fixed when the first segment was paid.
func (b *Booking) MultiSegment() bool {
	return len(b.PaymentSegments) > 1
}

// FirstSegment returns the segment with the lowest sequence number, or nil.
// Segment payments always target this segment; sequential ordering of later
// segments is enforced server-side by the ledger of record.
func (b *Booking) FirstSegment() *PaymentSegment {
	if len(b.PaymentSegments) == 0 {
		return nil
	}
	segs := make([]PaymentSegment, len(b.PaymentSegments))
	copy(segs, b.PaymentSegments)
	sort.Slice(segs, func(i, j int) bool { return segs[i].Sequence < segs[j].Sequence })
	return &segs[0]
}

// DueAmount is the amount the next payment attempt must charge: the first
// segment's amount when segments exist, else the quote amount.
func (b *Booking) DueAmount() float64 {
	if seg := b.FirstSegment(); seg != nil {
		return seg.Amount
	}
	return b.QuoteAmount
}

// NextPendingSegment returns the lowest-sequence segment still pending after
// the given sequence, or nil. Used to schedule due-date reminders.
func (b *Booking) NextPendingSegment(after int) *PaymentSegment {
	var next *PaymentSegment
	for i := range b.PaymentSegments {
		seg := &b.PaymentSegments[i]
		if seg.Sequence <= after || seg.Status != SegmentPending {
			continue
		}
		if next == nil || seg.Sequence < next.Sequence {
			next = seg
		}
	}
	return next
}
