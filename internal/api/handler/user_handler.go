package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

// UserHandler serves profiles and mailboxes.
type UserHandler struct {
	users    ports.UserService
	messages ports.MessageService
}

func NewUserHandler(users ports.UserService, messages ports.MessageService) *UserHandler {
	return &UserHandler{users: users, messages: messages}
}

// List returns every user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  usersResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Users: users})
}

// Get returns a user with owned listings and held bookings.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /users/{username} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Update patches the caller's own profile.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string             true  "Username"
// @Param        body      body      updateUserRequest  true  "Fields to change"
// @Success      200       {object}  userResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Router       /users/{username} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), c.Param("username"), domain.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Delete removes the caller's account with everything it owns.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  deletedUserResponse
// @Failure      401       {object}  ErrorResponse
// @Router       /users/{username} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	username := c.Param("username")
	if err := h.users.Delete(c.Request().Context(), username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deletedUserResponse{Deleted: username})
}

// Inbox lists messages received by the caller, newest first.
//
// @Summary      Inbox
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  messagesResponse
// @Failure      401       {object}  ErrorResponse
// @Router       /users/{username}/inbox [get]
func (h *UserHandler) Inbox(c echo.Context) error {
	msgs, err := h.messages.Inbox(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messagesResponse{Messages: msgs})
}

// Sent lists messages sent by the caller, newest first.
//
// @Summary      Sent messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  messagesResponse
// @Failure      401       {object}  ErrorResponse
// @Router       /users/{username}/sent [get]
func (h *UserHandler) Sent(c echo.Context) error {
	msgs, err := h.messages.Sent(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messagesResponse{Messages: msgs})
}
