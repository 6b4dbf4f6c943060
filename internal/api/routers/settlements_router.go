package routers

import (
	"net/http"

	"splitledger/internal/api/handlers/settlements"
)

func settlementsRouter(h *settlements.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/settlements/create", h.CreateHandler)

	return mux
}
