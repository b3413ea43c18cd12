package model

type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleAdmin    UserRole = "ADMIN"
)

// Account is the backend mirror of an identity-provider user.
type Account struct {
	ID          int64     `json:"id,omitempty"`
	FirebaseUID string    `json:"firebaseUid"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Role        UserRole  `json:"role"`
	IsActive    bool      `json:"active"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == UserRoleAdmin
}

type RegisterAccountRequest struct {
	FirebaseUID string  `json:"firebaseUid"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
}

type UpdateProfileRequest struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Phone       *string `json:"phone,omitempty"`
	Email       string  `json:"email"`
	FirebaseUID string  `json:"firebaseUid"`
}
