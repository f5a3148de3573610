package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sigmat-api/middleware"
	"sigmat-api/services"
	"sigmat-api/utils"
)

type AuthController struct {
	accounts *services.AccountService
}

func NewAuthController(accounts *services.AccountService) *AuthController {
	return &AuthController{accounts: accounts}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	res, err := ac.accounts.Register(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := ac.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Me returns the caller's profile, or a bare admin marker for the admin.
func (ac *AuthController) Me(c *gin.Context) {
	if middleware.CurrentIdentity(c).IsPrivileged() {
		c.JSON(http.StatusOK, gin.H{"is_admin": true})
		return
	}

	user, err := ac.accounts.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
