package routers

import (
	"net/http"

	"splitledger/internal/api/handlers/balances"
)

func balancesRouter(h *balances.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/balances/{identity}", h.BalancesHandler)

	mux.HandleFunc("/balances/{identity}/dashboard", h.DashboardHandler)

	return mux
}
