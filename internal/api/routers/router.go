package routers

import (
	"net/http"

	"splitledger/internal/api/handlers/auth"
	"splitledger/internal/api/handlers/balances"
	"splitledger/internal/api/handlers/expenses"
	"splitledger/internal/api/handlers/groups"
	"splitledger/internal/api/handlers/settlements"
)

// Handlers carries the constructed handler set into the router; there are no
// package-level handler singletons.
type Handlers struct {
	Auth        *auth.Handler
	Expenses    *expenses.Handler
	Settlements *settlements.Handler
	Balances    *balances.Handler
	Groups      *groups.Handler
}

func MainRouter(h Handlers) *http.ServeMux {

	mux := http.NewServeMux()

	mux.Handle("/users/", usersRouter(h.Auth))

	mux.Handle("/expenses/", expensesRouter(h.Expenses))

	mux.Handle("/settlements/", settlementsRouter(h.Settlements))

	mux.Handle("/balances/", balancesRouter(h.Balances))

	mux.Handle("/groups/", groupsRouter(h.Groups))

	return mux
}
