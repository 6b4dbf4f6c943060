package balances

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"splitledger/internal/manager"
	"splitledger/pkg/utils"
)

type Handler struct {
	Manager *manager.Manager
	Logger  *logrus.Logger
}

// FUNC TO FETCH THE NET BALANCES FOR ONE IDENTITY
// Positive entries are what the identity owes; negative entries are owed to
// them. Counterparties at zero are omitted.
func (h *Handler) BalancesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identity := r.PathValue("identity")
	if identity == "" {
		utils.WriteError(w, "identity is required", http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, h.Manager.BalancesFor(identity))
}

// FUNC TO FETCH DASHBOARD TOTALS FOR ONE IDENTITY
func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identity := r.PathValue("identity")
	if identity == "" {
		utils.WriteError(w, "identity is required", http.StatusBadRequest)
		return
	}

	youOwe, owedToYou := h.Manager.DashboardTotals(identity)
	utils.WriteJSON(w, map[string]interface{}{
		"you_owe":     youOwe,
		"owed_to_you": owedToYou,
	})
}
