package controllers

import (
	"net/http"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/services"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService services.AuthService
}

func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, appErr := ac.authService.Register(c.Request.Context(), &req)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, appErr := ac.authService.Login(c.Request.Context(), &req)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user
func (ac *AuthController) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, appErr := ac.authService.Me(c.Request.Context(), userID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
