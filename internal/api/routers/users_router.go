package routers

import (
	"net/http"

	"splitledger/internal/api/handlers/auth"
)

func usersRouter(h *auth.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/signup", h.SignupHandler)

	mux.HandleFunc("/users/login", h.LoginHandler)

	mux.HandleFunc("/users/profile", h.ProfileHandler)

	return mux
}
