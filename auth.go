package main

import (
	"net/http"

	"github.com/eventplanner/eventplanner-api/internal/service"
	"github.com/gin-gonic/gin"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ========================
// SIGNUP HANDLER
// ========================

func (api *API) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	res, err := api.accounts.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ========================
// LOGIN HANDLER
// ========================

func (api *API) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	res, err := api.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (api *API) Me(c *gin.Context) {
	userID, _ := getUserIDFromContext(c)
	u, err := api.accounts.Me(c.Request.Context(), userID)
	if err != nil {
		api.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
