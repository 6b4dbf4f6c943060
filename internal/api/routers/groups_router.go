package routers

import (
	"net/http"

	"splitledger/internal/api/handlers/groups"
)

func groupsRouter(h *groups.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/groups/create", h.CreateHandler)

	mux.HandleFunc("/groups/", h.ListHandler)

	mux.HandleFunc("/groups/{id}", h.GetHandler)

	return mux
}
