package handler

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sharebnb/sharebnb-api/internal/api/middleware"
	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

const (
	photoField   = "photo"
	maxPhotoSize = 8 << 20
)

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// caller returns the authenticated username set by the identity middleware.
func caller(c echo.Context) (string, error) {
	username, ok := middleware.IdentityFrom(c).Username()
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return username, nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// formPhoto reads the optional photo part of a multipart request.
// It returns nil when the part is absent.
func formPhoto(c echo.Context) (*domain.Photo, error) {
	fh, err := c.FormFile(photoField)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid photo upload")
	}
	if fh.Size > maxPhotoSize {
		return nil, domain.BadRequest("photo must be at most %d bytes", maxPhotoSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(f, maxPhotoSize+1)); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, nil
	}

	contentType := fh.Header.Get(echo.HeaderContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(buf.Bytes())
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domain.BadRequest("photo must be an image")
	}

	return &domain.Photo{Filename: fh.Filename, ContentType: contentType, Data: buf.Bytes()}, nil
}
