package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrepGrid-2025/testing-service/internal/config"
	"github.com/PrepGrid-2025/testing-service/internal/repositories/casdoor"
	"github.com/PrepGrid-2025/testing-service/internal/services"
	"github.com/PrepGrid-2025/testing-service/internal/sessions"
	"github.com/PrepGrid-2025/testing-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	provider    *casdoor.IdentityProvider
	authService services.AuthService
	store       sessions.Store
	cfg         *config.Config
}

func NewAuthHandler(
	provider *casdoor.IdentityProvider,
	authService services.AuthService,
	store sessions.Store,
	cfg *config.Config,
	logger utils.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		provider:    provider,
		authService: authService,
		store:       store,
		cfg:         cfg,
	}
}

func (h *AuthHandler) callbackURL() string {
	return h.cfg.ServerURL + "/auth/callback"
}

// Login redirects the browser to the identity provider
// @Summary Start login
// @Description Redirects to the identity provider's sign-in page
// @Tags auth
// @Success 302
// @Router /auth/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	c.Redirect(http.StatusFound, h.provider.SigninURL(h.callbackURL()))
}

// Callback completes the OAuth code exchange and opens a session
// @Summary OAuth callback
// @Description Exchanges the authorization code, upserts the user and sets the session cookie
// @Tags auth
// @Param code query string true "Authorization code"
// @Param state query string true "OAuth state"
// @Success 302
// @Failure 401 {object} ErrorResponse
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication failed",
			Details: "missing authorization code",
		})
		return
	}

	profile, err := h.provider.Exchange(c.Request.Context(), code, state)
	if err != nil {
		h.LogRequest(c, "code exchange failed", "error", err)
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication failed",
		})
		return
	}

	user, err := h.authService.CompleteLogin(c.Request.Context(), profile)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	session, err := h.store.Create(c.Request.Context(), user.ID)
	if err != nil {
		h.LogRequest(c, "session create failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	h.setSessionCookie(c, session.ID, int(h.cfg.SessionTTL.Seconds()))
	h.LogRequest(c, "user logged in", "user_id", user.ID, "role", user.Role)

	c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/dashboard")
}

// Logout tears down the session
// @Summary Log out
// @Description Deletes the server-side session and clears the cookie
// @Tags auth
// @Success 302
// @Router /auth/logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		if err := h.store.Delete(c.Request.Context(), token); err != nil {
			h.LogRequest(c, "session delete failed", "error", err)
		}
	}

	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, h.cfg.FrontendURL)
}

// CurrentUser returns the authenticated user
// @Summary Current user
// @Description Returns the user bound to the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /auth/current_user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// setSessionCookie writes the session cookie with the cross-origin settings
// the frontend needs: SameSite=None so it rides requests from the frontend
// origin, which in turn mandates Secure. HttpOnly keeps it out of scripts.
func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", true, true)
}
