package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/boxaid/boxaid/internal/models"
	"github.com/boxaid/boxaid/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login authenticates a user and issues the JWT the data API verifies.
// Base ids are every base of the user's organisation; permissions follow
// the admin flag. A dedicated token service replaces this in production.
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var user models.User
	if err := r.db.Where("email = ?", loginReq.Email).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now()
	user.LastLogin = &now
	r.db.Save(&user)

	var bases []models.Base
	if err := r.db.Where("organisation_id = ?", user.OrganisationID).Find(&bases).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load bases")
		return
	}
	baseIDs := make([]uint, len(bases))
	for i, b := range bases {
		baseIDs[i] = b.ID
	}

	permissions := []string{"qr:create"}
	if user.IsAdmin {
		permissions = append(permissions, "stock:write")
	}

	accessToken, err := utils.GenerateToken(&user, baseIDs, permissions, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken": accessToken,
		"user":        user,
	})
}
