package model

import "time"

// PendingRegistration is a provider account whose backend registration has
// not succeeded yet. It is replayed on the next sign-in for the same uid.
type PendingRegistration struct {
	FirebaseUID string    `json:"firebaseUid"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Phone       *string   `json:"phone,omitempty"`
	Attempts    int       `json:"attempts"`
	LastError   string    `json:"lastError"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *PendingRegistration) Request() RegisterAccountRequest {
	return RegisterAccountRequest{
		FirebaseUID: p.FirebaseUID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
	}
}
