package auth

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"splitledger/internal/api/handlers"
	"splitledger/internal/models"
	"splitledger/pkg/utils"
)

type UserStore interface {
	AddUser(models.User) error
	GetUser(username string) (models.User, error)
}

type Handler struct {
	Store  UserStore
	Logger *logrus.Logger
}

// FUNC TO REGISTER USERS
func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var newUser models.User
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&newUser); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	newUser.Username = strings.ToLower(newUser.Username)
	if newUser.Username == "" || newUser.Name == "" || newUser.Password == "" {
		utils.WriteError(w, "missing required fields", http.StatusBadRequest)
		return
	}

	hashedPwd, err := utils.HashPassword(newUser.Password)
	if err != nil {
		h.Logger.Errorf("failed to hash password: %v", err)
		utils.WriteError(w, "error signing up", http.StatusInternalServerError)
		return
	}
	newUser.Password = hashedPwd

	if err := h.Store.AddUser(newUser); err != nil {
		utils.WriteError(w, "failed to sign up", handlers.StatusForError(err))
		return
	}

	h.Logger.Infof("user %s signed up", newUser.Username)
	utils.WriteJSON(w, map[string]string{"status": "success", "username": newUser.Username})
}

// FUNC TO LOG USERS IN
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user, err := h.Store.GetUser(strings.ToLower(req.Username))
	if err != nil {
		utils.WriteError(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	if err := utils.VerifyPassword(req.Password, user.Password); err != nil {
		utils.WriteError(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user": user.Username,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		h.Logger.Errorf("failed to sign token: %v", err)
		utils.WriteError(w, "failed to log in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "Bearer",
		Value:    "Bearer " + signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	utils.WriteJSON(w, map[string]string{"status": "success", "token": signed})
}

// FUNC TO FETCH THE LOGGED-IN USER'S PROFILE
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username, ok := r.Context().Value(utils.ContextKey("username")).(string)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Store.GetUser(username)
	if err != nil {
		utils.WriteError(w, "user not found", handlers.StatusForError(err))
		return
	}

	user.Password = ""
	utils.WriteJSON(w, user)
}
