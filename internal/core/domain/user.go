package domain

// User models a registered member of the marketplace.
type User struct {
	Username     string `json:"username"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// UserDetail is a user together with the listings they own and the bookings
// they hold.
type UserDetail struct {
	User
	Listings []ListingSummary `json:"listings"`
	Bookings []Booking        `json:"bookings"`
}

// UserPatch carries the mutable profile fields. Nil fields are left unchanged.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
}

func (p UserPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil
}
