package groups

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"splitledger/internal/api/handlers"
	"splitledger/internal/models"
	"splitledger/pkg/utils"
)

type GroupStore interface {
	AddGroup(models.Group) error
	GetGroup(id string) (models.Group, error)
	Groups() ([]models.Group, error)
}

type Handler struct {
	Store  GroupStore
	Logger *logrus.Logger
}

// FUNC TO CREATE A GROUP
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type request struct {
		Name string `json:"name"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Name == "" {
		utils.WriteError(w, "group name is required", http.StatusBadRequest)
		return
	}

	group := models.Group{ID: uuid.NewString(), Name: req.Name}
	if err := h.Store.AddGroup(group); err != nil {
		utils.WriteError(w, "failed to create group", handlers.StatusForError(err))
		return
	}

	h.Logger.Infof("group %s created", group.ID)
	utils.WriteJSON(w, group)
}

// FUNC TO LIST ALL GROUPS
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	list, err := h.Store.Groups()
	if err != nil {
		h.Logger.Errorf("failed to list groups: %v", err)
		utils.WriteError(w, "failed to list groups", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, list)
}

// FUNC TO FETCH ONE GROUP BY ID
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	group, err := h.Store.GetGroup(r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, "group not found", handlers.StatusForError(err))
		return
	}
	utils.WriteJSON(w, group)
}
