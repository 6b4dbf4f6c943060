package expenses

import (
	"encoding/json"
	"errors"
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

// FUNC TO RECORD A SHARED EXPENSE
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var exp models.Expense
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&exp); err != nil {
		if errors.Is(err, models.ErrDuplicateIdentity) {
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}
	if exp.Date.IsZero() {
		exp.Date = time.Now().UTC()
	}

	if err := h.Manager.AddExpense(exp); err != nil {
		status := handlers.StatusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorf("failed to add expense: %v", err)
			utils.WriteError(w, "failed to record expense", status)
			return
		}
		utils.WriteError(w, err.Error(), status)
		return
	}

	utils.WriteJSON(w, map[string]string{"status": "success", "id": exp.ID})
}
