package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/models"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/repositories"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/services"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/bind"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/response"
)

type UsersController struct {
	service *services.UsersService
}

func NewUsersController(service *services.UsersService) *UsersController {
	return &UsersController{service: service}
}

func (c *UsersController) List(w http.ResponseWriter, r *http.Request) error {
	limit, err := queryInt(r, "limit", services.DefaultLimit)
	if err != nil {
		return err
	}
	page, err := queryInt(r, "page", 0)
	if err != nil {
		return err
	}

	users, err := c.service.List(r.Context(), limit, page)
	if err != nil {
		return err
	}
	response.JSON(w, http.StatusOK, users)
	return nil
}

func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) error {
	var in models.CreateUserInput
	if err := bind.JSON(r, &in); err != nil {
		return err
	}

	id, err := c.service.Create(r.Context(), in)
	if err != nil {
		return userError(err, "", "User email already exists")
	}
	response.Created(w, map[string]string{"id": id})
	return nil
}

func (c *UsersController) Show(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "userId")
	user, err := c.service.Get(r.Context(), id)
	if err != nil {
		return userError(err, id, "")
	}
	response.JSON(w, http.StatusOK, user)
	return nil
}

func (c *UsersController) Put(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "userId")
	var in models.PutUserInput
	if err := bind.JSON(r, &in); err != nil {
		return err
	}

	if err := c.service.Put(r.Context(), id, in); err != nil {
		return userError(err, id, "Invalid email")
	}
	response.NoContent(w)
	return nil
}

func (c *UsersController) Patch(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "userId")
	var in models.PatchUserInput
	if err := bind.JSON(r, &in); err != nil {
		return err
	}

	if err := c.service.Patch(r.Context(), id, in); err != nil {
		return userError(err, id, "Invalid email")
	}
	response.NoContent(w)
	return nil
}

func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "userId")
	if err := c.service.Delete(r.Context(), id); err != nil {
		return userError(err, id, "")
	}
	response.NoContent(w)
	return nil
}

// userError maps service errors onto client-facing HTTP errors. Anything
// unrecognised is passed through and ends up a 500.
func userError(err error, id, duplicateMsg string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return response.Wrap(http.StatusNotFound, fmt.Sprintf("User %s not found", id), err)
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return response.Wrap(http.StatusBadRequest, duplicateMsg, err)
	case errors.Is(err, services.ErrPasswordTooLong):
		return response.Invalid(map[string]string{"password": "The password may not be greater than 72 bytes."})
	}
	return err
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, response.Invalid(map[string]string{key: fmt.Sprintf("The %s must be a non-negative integer.", key)})
	}
	return n, nil
}
