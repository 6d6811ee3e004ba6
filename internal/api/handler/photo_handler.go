package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

type PhotoHandler struct {
	service ports.PhotoService
}

func NewPhotoHandler(service ports.PhotoService) *PhotoHandler {
	return &PhotoHandler{service: service}
}

// Get streams a stored listing photo.
//
// @Summary      Get a photo
// @Tags         photos
// @Produce      image/jpeg
// @Produce      image/png
// @Param        id   path  string  true  "Photo ID"
// @Success      200
// @Failure      404  {object}  ErrorResponse
// @Router       /photos/{id} [get]
func (h *PhotoHandler) Get(c echo.Context) error {
	photo, err := h.service.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer photo.Body.Close()

	header := c.Response().Header()
	if photo.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(photo.Size, 10))
	}
	header.Set("Cache-Control", "public, max-age=86400, immutable")
	return c.Stream(http.StatusOK, photo.ContentType, photo.Body)
}
