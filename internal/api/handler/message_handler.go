package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send delivers a message from the caller.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	sender, err := caller(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.service.Send(c.Request().Context(), sender, req.Recipient, req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Get returns a message the caller sent or received.
//
// @Summary      Get a message
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /messages/{id} [get]
func (h *MessageHandler) Get(c echo.Context) error {
	reader, err := caller(c)
	if err != nil {
		return err
	}

	msg, err := h.service.Get(c.Request().Context(), c.Param("id"), reader)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}
