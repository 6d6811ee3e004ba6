package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sharebnb/sharebnb-api/internal/api/middleware"
	"github.com/sharebnb/sharebnb-api/internal/core/domain"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

// ListingHandler serves listing CRUD and the booking endpoints.
type ListingHandler struct {
	service ports.ListingService
}

func NewListingHandler(service ports.ListingService) *ListingHandler {
	return &ListingHandler{service: service}
}

// Create publishes a listing owned by the caller.
//
// @Summary      Create a listing
// @Tags         listings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Title"
// @Param        type         formData  string  true   "Space type"
// @Param        price        formData  int     true   "Price"
// @Param        description  formData  string  false  "Description"
// @Param        location     formData  string  true   "Location"
// @Param        photo        formData  file    true   "Photo"
// @Success      201  {object}  listingResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	owner, err := caller(c)
	if err != nil {
		return err
	}
	if !isMultipart(c) {
		return domain.BadRequest("listing must be submitted as multipart/form-data")
	}

	var req createListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	photo, err := formPhoto(c)
	if err != nil {
		return err
	}
	if photo == nil {
		return domain.ErrPhotoRequired
	}

	listing, err := h.service.Create(c.Request().Context(), ports.CreateListingInput{
		Title:         req.Title,
		Type:          req.Type,
		Price:         req.Price,
		Description:   req.Description,
		Location:      req.Location,
		OwnerUsername: owner,
		Photo:         photo,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, listingResponse{Listing: listing})
}

// List returns all listings, optionally filtered by title.
//
// @Summary      List listings
// @Tags         listings
// @Produce      json
// @Param        title  query     string  false  "Case-insensitive title substring"
// @Success      200    {object}  listingsResponse
// @Router       /listings [get]
func (h *ListingHandler) List(c echo.Context) error {
	var filter domain.ListingFilter
	if title := strings.TrimSpace(c.QueryParam("title")); title != "" {
		filter.Title = &title
	}

	listings, err := h.service.FindAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listingsResponse{Listings: listings})
}

// Get returns one listing.
//
// @Summary      Get a listing
// @Tags         listings
// @Produce      json
// @Param        id   path      int  true  "Listing ID"
// @Success      200  {object}  listingResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	id, err := middleware.ParseID(c.Param("id"))
	if err != nil {
		return err
	}

	listing, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listingResponse{Listing: listing})
}

// Update patches a listing owned by the caller. JSON bodies carry the
// fields; multipart bodies may also carry a replacement photo.
//
// @Summary      Update a listing
// @Tags         listings
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Listing ID"
// @Param        body  body      updateListingRequest  false "Fields to change"
// @Success      200   {object}  listingResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /listings/{id} [patch]
func (h *ListingHandler) Update(c echo.Context) error {
	current, ok := middleware.ListingFrom(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var (
		req   updateListingRequest
		photo *domain.Photo
		err   error
	)
	if isMultipart(c) {
		if req, err = updateFromForm(c); err != nil {
			return err
		}
		if photo, err = formPhoto(c); err != nil {
			return err
		}
	} else if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	listing, err := h.service.Update(c.Request().Context(), current, req.toPatch(), photo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listingResponse{Listing: listing})
}

// Delete removes a listing owned by the caller.
//
// @Summary      Delete a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Listing ID"
// @Success      200  {object}  deletedListingResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /listings/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	current, ok := middleware.ListingFrom(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := h.service.Delete(c.Request().Context(), current); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deletedListingResponse{Deleted: current.ID})
}

// Book claims a listing for the caller.
//
// @Summary      Book a listing
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Listing ID"
// @Success      200  {object}  domain.Booking
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /listings/{id}/book [post]
func (h *ListingHandler) Book(c echo.Context) error {
	username, err := caller(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParseID(c.Param("id"))
	if err != nil {
		return err
	}

	booking, err := h.service.Book(c.Request().Context(), id, username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// Unbook releases the caller's booking of a listing.
//
// @Summary      Cancel a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Listing ID"
// @Success      200  {object}  cancelledResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /listings/{id}/book [delete]
func (h *ListingHandler) Unbook(c echo.Context) error {
	username, err := caller(c)
	if err != nil {
		return err
	}
	id, err := middleware.ParseID(c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.service.Unbook(c.Request().Context(), id, username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cancelledResponse{Cancelled: id})
}

// updateFromForm reads the whitelisted fields of a multipart PATCH. Fields
// that are absent from the form stay nil.
func updateFromForm(c echo.Context) (updateListingRequest, error) {
	var req updateListingRequest
	form, err := c.MultipartForm()
	if err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	value := func(key string) *string {
		if vs, ok := form.Value[key]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}

	req.Title = value("title")
	req.Type = value("type")
	req.PhotoURL = value("photoUrl")
	req.Description = value("description")
	req.Location = value("location")
	if raw := value("price"); raw != nil {
		price, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			return req, domain.BadRequest("price must be an integer")
		}
		req.Price = &price
	}
	return req, nil
}
