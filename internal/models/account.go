package models

import (
	"time"
)

// Gender is the self-reported gender of a profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ActivityLevel describes how physically active the account holder is.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very-active"
)

// Account is a registered identity. It is persisted as one element of the
// "users" document and mirrored under "currentUser" while logged in.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Profile      *Profile  `json:"profile,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sanitized returns a copy of the account without its credential hash.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	if a.Profile != nil {
		p := *a.Profile
		a.Profile = &p
	}
	return a
}

// Profile holds the body metrics attached to an account.
type Profile struct {
	Age           int           `json:"age"`
	Height        float64       `json:"height"` // centimeters
	Weight        float64       `json:"weight"` // kilograms
	Gender        Gender        `json:"gender"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	BMI           float64       `json:"bmi"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
