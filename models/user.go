// models/user.go
package models

import "time"

// Language is the closed set of consultation languages the client supports.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageHindi   Language = "hindi"
	LanguageTamil   Language = "tamil"
	LanguageTelugu  Language = "telugu"
)

// DefaultLanguage is the explicit fallback applied at the wire boundary only.
const DefaultLanguage = LanguageEnglish

// Valid reports whether l is a known language.
func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageHindi, LanguageTamil, LanguageTelugu:
		return true
	}
	return false
}

// ResponseLength controls how detailed guru chat answers are, and drives
// the per-question credit cost.
type ResponseLength string

const (
	ResponseShort    ResponseLength = "short"
	ResponseNormal   ResponseLength = "normal"
	ResponseDetailed ResponseLength = "detailed"
)

// DefaultResponseLength is the explicit fallback applied at the wire boundary only.
const DefaultResponseLength = ResponseNormal

// Valid reports whether r is a known response length.
func (r ResponseLength) Valid() bool {
	switch r {
	case ResponseShort, ResponseNormal, ResponseDetailed:
		return true
	}
	return false
}

// UserSettings holds the user preferences synchronized with the backend.
type UserSettings struct {
	Language       Language       `json:"language"`
	ResponseLength ResponseLength `json:"responseLength"`
}

// Normalized maps unknown wire values to the explicit defaults. Only the
// backend-response boundary may call this; business logic sees valid enums.
func (s UserSettings) Normalized() UserSettings {
	if !s.Language.Valid() {
		s.Language = DefaultLanguage
	}
	if !s.ResponseLength.Valid() {
		s.ResponseLength = DefaultResponseLength
	}
	return s
}

// UserSession is the device-local record of the signed-in user. It is owned
// by the session store and mutated only through coordinator results, never
// directly by handlers.
type UserSession struct {
	UserID        string       `json:"userId"`
	Email         string       `json:"email"`
	CreditBalance int          `json:"creditBalance"`
	CreditLimit   int          `json:"creditLimit"`
	Settings      UserSettings `json:"settings"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
