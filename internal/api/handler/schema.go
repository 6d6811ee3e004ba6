package handler

import "github.com/sharebnb/sharebnb-api/internal/core/domain"

// --- Requests ---

type registerRequest struct {
	Username  string `json:"username"  validate:"required,alphanum,max=25"`
	Password  string `json:"password"  validate:"required,min=5,max=72"`
	FirstName string `json:"firstName" validate:"required,max=30"`
	LastName  string `json:"lastName"  validate:"required,max=30"`
	Email     string `json:"email"     validate:"required,email,max=60"`
}

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// createListingRequest arrives as multipart form fields next to the photo file.
type createListingRequest struct {
	Title       string `form:"title"       validate:"required,max=100"`
	Type        string `form:"type"        validate:"required,max=50"`
	Price       int    `form:"price"       validate:"gte=0,lte=2147483647"`
	Description string `form:"description" validate:"max=2000"`
	Location    string `form:"location"    validate:"required,max=100"`
}

// updateListingRequest holds the mutable listing fields. Anything else in the
// body, such as ownerUsername or id, is ignored.
type updateListingRequest struct {
	Title       *string `json:"title"       validate:"omitnil,min=1,max=100"`
	Type        *string `json:"type"        validate:"omitnil,min=1,max=50"`
	PhotoURL    *string `json:"photoUrl"    validate:"omitnil,url"`
	Price       *int    `json:"price"       validate:"omitnil,gte=0,lte=2147483647"`
	Description *string `json:"description" validate:"omitnil,max=2000"`
	Location    *string `json:"location"    validate:"omitnil,min=1,max=100"`
}

func (r updateListingRequest) toPatch() domain.ListingPatch {
	return domain.ListingPatch{
		Title:       r.Title,
		Type:        r.Type,
		PhotoURL:    r.PhotoURL,
		Price:       r.Price,
		Description: r.Description,
		Location:    r.Location,
	}
}

type updateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitnil,min=1,max=30"`
	LastName  *string `json:"lastName"  validate:"omitnil,min=1,max=30"`
	Email     *string `json:"email"     validate:"omitnil,email,max=60"`
}

type sendMessageRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Body      string `json:"body"      validate:"required,max=2000"`
}

// --- Responses ---

type tokenResponse struct {
	Token string `json:"token"`
}

type createdUserResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

type listingResponse struct {
	Listing *domain.Listing `json:"listing"`
}

type listingsResponse struct {
	Listings []domain.Listing `json:"listings"`
}

type userResponse struct {
	User any `json:"user"`
}

type usersResponse struct {
	Users []domain.User `json:"users"`
}

type messageResponse struct {
	Message *domain.Message `json:"message"`
}

type messagesResponse struct {
	Messages []domain.Message `json:"messages"`
}

type cancelledResponse struct {
	Cancelled int64 `json:"cancelled"`
}

type deletedListingResponse struct {
	Deleted int64 `json:"deleted"`
}

type deletedUserResponse struct {
	Deleted string `json:"deleted"`
}

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorResponse is the error envelope: {"error": {"message", "status"}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
