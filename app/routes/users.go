package routes

import (
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/app/controllers"
	"github.com/ChrisJohDev/pub-toptal-tsrestapi/pkg/router"
)

// UsersRoutes mounts the /users resource.
type UsersRoutes struct {
	users *controllers.UsersController
}

func NewUsersRoutes(users *controllers.UsersController) *UsersRoutes {
	return &UsersRoutes{users: users}
}

func (UsersRoutes) Name() string { return "UsersRoutes" }

func (m *UsersRoutes) AttachTo(r *router.Router) {
	users := r.Group("/users")
	users.Get("/", "users.index", m.users.List)
	users.Post("/", "users.store", m.users.Create)
	users.Get("/{userId}", "users.show", m.users.Show)
	users.Put("/{userId}", "users.replace", m.users.Put)
	users.Patch("/{userId}", "users.update", m.users.Patch)
	users.Delete("/{userId}", "users.destroy", m.users.Delete)
}
