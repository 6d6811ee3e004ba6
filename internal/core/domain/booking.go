package domain

// Booking is a claim by one user on one listing. The (Username, ListingID)
// pair is unique and Username never equals the listing owner.
type Booking struct {
	Username  string `json:"username"`
	ListingID int64  `json:"listingId"`
}
