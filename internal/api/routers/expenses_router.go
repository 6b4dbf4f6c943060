package routers

import (
	"net/http"

	"splitledger/internal/api/handlers/expenses"
)

func expensesRouter(h *expenses.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expenses/create", h.CreateHandler)

	return mux
}
