// models/booking.go
package models

import "time"

// BookingStatus is the lifecycle state of a confirmed booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
)

// Booking represents a confirmed booking record. The ID is always assigned
// by the backend; the client never fabricates one.
type Booking struct {
	ID                 string        `bson:"id" json:"id"`
	UserID             string        `bson:"userId" json:"userId"`
	GuruID             string        `bson:"guruId" json:"guruId"`
	ConsultationTypeID string        `bson:"consultationTypeId" json:"consultationTypeId"`
	Date               string        `bson:"date" json:"date"`
	StartHour          int           `bson:"startHour" json:"startHour"`
	StartMinute        int           `bson:"startMinute" json:"startMinute"`
	DurationMinutes    int           `bson:"durationMinutes" json:"durationMinutes"`
	CreditsUsed        int           `bson:"creditsUsed" json:"creditsUsed"`
	Status             BookingStatus `bson:"status" json:"status"`
	CreatedAt          time.Time     `bson:"createdAt" json:"createdAt"`
}

// BookingStage is the explicit state of an in-progress booking flow.
type BookingStage string

const (
	StageBrowsing             BookingStage = "browsing"
	StageGuruSelected         BookingStage = "guru_selected"
	StageConsultationSelected BookingStage = "consultation_selected"
	StageDateSelected         BookingStage = "date_selected"
	StageSlotSelected         BookingStage = "slot_selected"
	StageConfirming           BookingStage = "confirming"
	StageBooked               BookingStage = "booked"
)

// BookingFlow holds context between guru selection and final confirmation.
type BookingFlow struct {
	FlowID             string       `json:"flowId"`
	UserID             string       `json:"userId"`
	Stage              BookingStage `json:"stage"`
	GuruID             string       `json:"guruId,omitempty"`
	ConsultationTypeID string       `json:"consultationTypeId,omitempty"`
	RequiredMinutes    int          `json:"requiredMinutes,omitempty"`
	CreditsRequired    int          `json:"creditsRequired,omitempty"`
	Date               string       `json:"date,omitempty"`
	Slot               *TimeSlot    `json:"slot,omitempty"`
	BookingID          string       `json:"bookingId,omitempty"`
}
