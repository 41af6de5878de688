// internal/handler/profile.go
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"crimson-finance/internal/auth"
	"crimson-finance/internal/domain"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	store  CombinedStorage
	tokens *auth.TokenService
	hasher *auth.PasswordHasher
}

func NewProfileHandler(store CombinedStorage, tokens *auth.TokenService, hasher *auth.PasswordHasher) *ProfileHandler {
	return &ProfileHandler{store: store, tokens: tokens, hasher: hasher}
}

// Register godoc
// @Summary Register a new profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Profile data"
// @Success 201 {object} map[string]int64
// @Failure 409 {object} map[string]string
// @Router /api/v1/profiles/register [post]
func (h *ProfileHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(c, err)
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	profile := domain.Profile{
		Email:                req.Email,
		PasswordHash:         hash,
		Role:                 domain.RoleUser,
		FullName:             req.FullName,
		PreferredName:        req.PreferredName,
		Phone:                req.Phone,
		Nationality:          req.Nationality,
		IdentificationNumber: req.IdentificationNumber,
		CEP:                  req.CEP,
		CreatedAt:            time.Now(),
	}
	if req.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "birthday must be in YYYY-MM-DD format"})
			return
		}
		profile.Birthday = birthday
	}

	id, err := h.store.CreateProfile(c.Request.Context(), profile)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("profile registered", "profile_id", id, "email", req.Email)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Login godoc
// @Summary Authenticate and receive a JWT
// @Tags profiles
// @Router /api/v1/profiles/login [post]
func (h *ProfileHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(c, err)
		return
	}

	profile, err := h.store.FindProfileByEmail(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	// Same response for unknown email and wrong password.
	if profile == nil || !h.hasher.Check(profile.PasswordHash, req.Password) {
		writeError(c, domain.ErrInvalidCredentials)
		return
	}

	token, err := h.tokens.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.store.ListProfiles(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if profiles == nil {
		profiles = []domain.ProfileSummary{}
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) Me(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	profile, err := h.store.FindProfileByID(c.Request.Context(), profileID)
	if err != nil {
		writeError(c, err)
		return
	}
	if profile == nil {
		writeError(c, domain.ErrProfileNotFound)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(c, err)
		return
	}

	profile, err := h.store.FindProfileByID(c.Request.Context(), profileID)
	if err != nil {
		writeError(c, err)
		return
	}
	if profile == nil {
		writeError(c, domain.ErrProfileNotFound)
		return
	}

	if req.FullName != "" {
		profile.FullName = req.FullName
	}
	if req.PreferredName != "" {
		profile.PreferredName = req.PreferredName
	}
	if req.Phone != "" {
		profile.Phone = req.Phone
	}
	if req.Nationality != "" {
		profile.Nationality = req.Nationality
	}
	if req.CEP != "" {
		profile.CEP = req.CEP
	}
	if req.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "birthday must be in YYYY-MM-DD format"})
			return
		}
		profile.Birthday = birthday
	}

	if err := h.store.UpdateProfile(c.Request.Context(), *profile); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ChangePassword verifies the current password before storing the new hash.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(c, err)
		return
	}

	profile, err := h.store.FindProfileByID(c.Request.Context(), profileID)
	if err != nil {
		writeError(c, err)
		return
	}
	if profile == nil {
		writeError(c, domain.ErrProfileNotFound)
		return
	}
	if !h.hasher.Check(profile.PasswordHash, req.OldPassword) {
		writeError(c, domain.ErrInvalidCredentials)
		return
	}

	hash, err := h.hasher.Hash(req.NewPassword)
	if err != nil {
		writeError(c, err)
		return
	}
	profile.PasswordHash = hash
	if err := h.store.UpdateProfile(c.Request.Context(), *profile); err != nil {
		writeError(c, err)
		return
	}

	slog.Info("password changed", "profile_id", profileID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Delete removes the profile and everything it owns.
func (h *ProfileHandler) Delete(c *gin.Context) {
	profileID, ok := profileIDFromCtx(c)
	if !ok {
		return
	}
	if err := h.store.DeleteProfile(c.Request.Context(), profileID); err != nil {
		writeError(c, err)
		return
	}
	slog.Info("profile deleted", "profile_id", profileID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// === DTO ===

type RegisterRequest struct {
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	FullName             string `json:"full_name" validate:"required,notblank"`
	PreferredName        string `json:"preferred_name"`
	Birthday             string `json:"birthday"`
	Phone                string `json:"phone"`
	Nationality          string `json:"nationality"`
	IdentificationNumber string `json:"identification_number" validate:"required,notblank"`
	CEP                  string `json:"cep"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName      string `json:"full_name"`
	PreferredName string `json:"preferred_name"`
	Birthday      string `json:"birthday"`
	Phone         string `json:"phone"`
	Nationality   string `json:"nationality"`
	CEP           string `json:"cep"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
