// models/guru.go
package models

// Guru represents a bookable astrologer.
type Guru struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Speciality string `json:"speciality"`
	Avatar     string `json:"avatar,omitempty"`
}

// ConsultationType is a guru offering with a fixed duration and credit price.
type ConsultationType struct {
	ID              string `json:"id"`
	GuruID          string `json:"guruId"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Credits         int    `json:"credits"`
}

// TimeSlot is one unit of a guru's bookable availability on a given date.
// Slots are ephemeral: they live only in the availability cache and are
// re-fetched per (guru, date) pair.
type TimeSlot struct {
	GuruID          string `json:"guruId" validate:"required"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	StartHour       int    `json:"startHour" validate:"min=0,max=23"`
	StartMinute     int    `json:"startMinute" validate:"min=0,max=59"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=5"`
}
