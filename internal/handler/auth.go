package handler

import (
	"net/http"

	"github.com/aman-churiwal/root-panel/internal/service"
	"github.com/gin-gonic/gin"
)

// Name of the cookie the panel keeps the root token in
const AuthCookie = "auth_root"

type AuthHandler struct {
	service      *service.AuthService
	cookieMaxAge int
	secureCookie bool
}

func NewAuthHandler(service *service.AuthService, expiryHours int, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		cookieMaxAge: expiryHours * 3600,
		secureCookie: secureCookie,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Handles GET /public/ex-root
func (h *AuthHandler) RootExists(c *gin.Context) {
	exists, err := h.service.RootExists(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"s": exists})
}

// Handles POST /public/register-root
func (h *AuthHandler) RegisterRoot(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.service.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Handles POST /public/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Handles GET /root/verify-authorization. The token already passed the
// middleware; this also confirms its root still exists.
func (h *AuthHandler) Verify(c *gin.Context) {
	rootID, _ := c.Get("root_id")
	id, _ := rootID.(string)

	root, err := h.service.GetRootByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if root == nil {
		RespondError(c, http.StatusUnauthorized, "Root account no longer exists")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"email": root.Email,
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookie, token, h.cookieMaxAge, "/", "", h.secureCookie, true)
}
