// internal/api/handlers/auth_handler.go
package handlers

import (
	"net/http"

	"github.com/AvantikaTIC/depuracionContable/internal/api/responses"
	"github.com/AvantikaTIC/depuracionContable/internal/core/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

type credenciales struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var cred credenciales
	if err := c.ShouldBindJSON(&cred); err != nil {
		responses.Error(c, http.StatusBadRequest, "Faltan campos requeridos: username, password")
		return
	}

	token, err := h.service.Login(c.Request.Context(), cred.Username, cred.Password)
	if err != nil {
		responses.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	responses.OK(c, "Inicio de sesión exitoso", gin.H{"token": token})
}
