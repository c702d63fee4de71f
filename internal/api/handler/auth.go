package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"marketgo/backend/internal/api/middleware"
	"marketgo/backend/internal/config"
	"marketgo/backend/internal/models"
	"marketgo/backend/internal/sanitize"
	"marketgo/backend/internal/storage"
)

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Intro    string `json:"intro"`
}

// Signup registers a new account.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signup payload"})
		return
	}
	if !sanitize.ValidUsername(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username must be 2-20 word characters"})
		return
	}
	if err := sanitize.CheckPassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.Storage.GetUserByUsername(req.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		abortWithError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		abortWithError(c, err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Intro:        sanitize.Clean(req.Intro),
	}
	if err := h.Storage.CreateUser(user); err != nil {
		abortWithError(c, err)
		return
	}

	log.Printf("INFO: new user registered: %s from IP %s", user.Username, c.ClientIP())
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a bearer token. Dormant accounts are
// refused; repeated failures are throttled per username via a Redis window.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	attemptKey := "login:attempts:" + req.Username
	attempts, err := h.Storage.IncrementWindow(attemptKey, config.LoginAttemptTTL)
	if err != nil {
		log.Printf("ERROR: login attempt counter unavailable: %v", err)
	} else if attempts > config.LoginMaxAttempts {
		log.Printf("WARNING: login attempt limit exceeded for username %s", req.Username)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts, try again later"})
		return
	}

	user, err := h.Storage.GetUserByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		log.Printf("WARNING: failed login attempt for username %s", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if user.IsDormant {
		log.Printf("WARNING: dormant account login attempt: %s", user.Username)
		c.JSON(http.StatusForbidden, gin.H{"error": "account is dormant due to reports, contact staff"})
		return
	}

	token, err := middleware.IssueToken(h.Secret, user.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	user.LastLoginIP = c.ClientIP()
	if err := h.Storage.UpdateUser(user); err != nil {
		log.Printf("ERROR: failed to record login IP for %s: %v", user.Username, err)
	}
	if err := h.Storage.ResetWindow(attemptKey); err != nil {
		log.Printf("ERROR: failed to reset login attempts for %s: %v", user.Username, err)
	}

	log.Printf("INFO: user logged in: %s from IP %s", user.Username, user.LastLoginIP)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me returns the authenticated account.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
