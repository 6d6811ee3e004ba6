package domain

// Listing is a rentable space published by its owner.
type Listing struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Type          string  `json:"type"`
	PhotoURL      *string `json:"photoUrl"`
	Price         int     `json:"price"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	OwnerUsername string  `json:"ownerUsername"`
}

// IsOwnedBy reports whether username is the listing's owner.
func (l *Listing) IsOwnedBy(username string) bool {
	return username != "" && l.OwnerUsername == username
}

// ListingSummary is the short form embedded in a user's profile.
type ListingSummary struct {
	ID    int64  `json:"listingId"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// ListingPatch is the whitelist of fields an owner may change. Ownership is
// deliberately absent. Nil fields are left unchanged.
type ListingPatch struct {
	Title       *string
	Type        *string
	PhotoURL    *string
	Price       *int
	Description *string
	Location    *string
}

func (p ListingPatch) IsEmpty() bool {
	return p.Title == nil && p.Type == nil && p.PhotoURL == nil &&
		p.Price == nil && p.Description == nil && p.Location == nil
}

// Apply returns a copy of l with the patch fields written over it.
func (p ListingPatch) Apply(l Listing) Listing {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.PhotoURL != nil {
		url := *p.PhotoURL
		l.PhotoURL = &url
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Location != nil {
		l.Location = *p.Location
	}
	return l
}

// ListingFilter holds the optional search predicates for listing queries.
type ListingFilter struct {
	// Title matches listings whose title contains it, case-insensitively.
	Title *string
}
