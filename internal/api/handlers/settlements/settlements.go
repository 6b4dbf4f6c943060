package settlements

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"splitledger/internal/api/handlers"
	"splitledger/internal/manager"
	"splitledger/internal/models"
	"splitledger/pkg/utils"
)

type Handler struct {
	Manager *manager.Manager
	Logger  *logrus.Logger
}

// FUNC TO RECORD A SETTLEMENT PAYMENT
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type request struct {
		models.Settlement
		// Strict refuses payments larger than the outstanding balance.
		// The engine itself allows overpayment; this is a UI-boundary check.
		Strict bool `json:"strict,omitempty"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	st := req.Settlement
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.Date.IsZero() {
		st.Date = time.Now().UTC()
	}

	if req.Strict {
		outstanding := h.Manager.BalancesFor(st.Payer)[st.Payee]
		if st.Amount.GreaterThan(outstanding) {
			utils.WriteError(w, "settlement exceeds outstanding balance", http.StatusBadRequest)
			return
		}
	}

	if err := h.Manager.AddSettlement(st); err != nil {
		status := handlers.StatusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorf("failed to add settlement: %v", err)
			utils.WriteError(w, "failed to record settlement", status)
			return
		}
		utils.WriteError(w, err.Error(), status)
		return
	}

	utils.WriteJSON(w, map[string]string{"status": "success", "id": st.ID})
}
