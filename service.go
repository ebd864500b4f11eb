// Copyright (c) 2024-2025 Darcy Buskermolen <darcy@dbitech.ca>
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"net/http"

	"github.com/VA7DBI/userauthAPI/config"
	"github.com/VA7DBI/userauthAPI/metrics"
	"github.com/VA7DBI/userauthAPI/middleware"
	"github.com/VA7DBI/userauthAPI/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// UserService exposes the session authority over HTTP.
type UserService struct {
	authority *session.Authority
	config    *config.Config
}

func NewUserService(authority *session.Authority, cfg *config.Config) *UserService {
	return &UserService{
		authority: authority,
		config:    cfg,
	}
}

// RegisterRequest is the POST /register body. Bounds match the original
// validation rules: password 6-50, username 3-50.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
	Username string `json:"username" binding:"required,min=3,max=50"`
}

// LoginRequest is the POST /login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// APIResponse is the success envelope for all endpoints.
type APIResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// @Summary     Register a new account
// @Description Create an account and receive a bearer token for it
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body RegisterRequest true "Registration details"
// @Success     201 {object} APIResponse
// @Failure     409 {object} ErrorResponse
// @Failure     422 {object} ErrorResponse
// @Router      /register [post]
func (s *UserService) RegisterHandler(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthRequests.WithLabelValues("register", "invalid").Inc()
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	creds, err := s.authority.Register(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		if errors.Is(err, session.ErrEmailExists) {
			metrics.AuthRequests.WithLabelValues("register", "conflict").Inc()
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already exists!"})
			return
		}
		metrics.AuthRequests.WithLabelValues("register", "error").Inc()
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Registration failed"})
		return
	}

	metrics.AuthRequests.WithLabelValues("register", "ok").Inc()
	metrics.TokensIssued.Inc()
	c.JSON(http.StatusCreated, APIResponse{Message: "Register successfully!", Data: creds})
}

// @Summary     Log in
// @Description Authenticate with email and password, receive a bearer token
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body LoginRequest true "Login credentials"
// @Success     200 {object} APIResponse
// @Failure     401 {object} ErrorResponse
// @Failure     422 {object} ErrorResponse
// @Router      /login [post]
func (s *UserService) LoginHandler(c *gin.Context) {
	timer := prometheus.NewTimer(metrics.LoginDuration)
	defer timer.ObserveDuration()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthRequests.WithLabelValues("login", "invalid").Inc()
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	creds, err := s.authority.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			metrics.AuthRequests.WithLabelValues("login", "unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Email or password is incorrect!"})
			return
		}
		metrics.AuthRequests.WithLabelValues("login", "error").Inc()
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Login failed"})
		return
	}

	metrics.AuthRequests.WithLabelValues("login", "ok").Inc()
	metrics.TokensIssued.Inc()
	c.JSON(http.StatusOK, APIResponse{Message: "Login successfully!", Data: creds})
}

// @Summary     Log out
// @Description Revoke the presented bearer token
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} APIResponse
// @Failure     401 {object} ErrorResponse
// @Failure     503 {object} ErrorResponse
// @Router      /logout [post]
func (s *UserService) LogoutHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	raw := c.GetString(middleware.ContextToken)

	if err := s.authority.Logout(c.Request.Context(), raw, userID); err != nil {
		metrics.AuthRequests.WithLabelValues("logout", "error").Inc()
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Logout failed, please retry"})
		return
	}

	metrics.AuthRequests.WithLabelValues("logout", "ok").Inc()
	metrics.TokensRevoked.Inc()
	c.JSON(http.StatusOK, APIResponse{Message: "Logout successfully!", Data: true})
}

// @Summary     Current user's profile
// @Description Profile of the authenticated caller
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} APIResponse
// @Failure     401 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /userAuth [get]
func (s *UserService) UserAuthHandler(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	profile, err := s.authority.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, session.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found!"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Profile lookup failed"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Message: "Get profile successfully!", Data: profile})
}

// @Summary     Profile by ID
// @Description Profile of any user by ID. Any authenticated caller may view
// @Description any profile; this is an intentional public-profile policy.
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} APIResponse
// @Failure     401 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /profile/{id} [get]
func (s *UserService) UserByIDHandler(c *gin.Context) {
	targetID := c.Param("id")

	profile, err := s.authority.GetUserByID(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, session.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found!"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Profile lookup failed"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Message: "Get user profile successfully!", Data: profile})
}
