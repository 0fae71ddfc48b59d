package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/nishant-deshmukh/book-review-api/store"
)

type AuthHandler struct {
	Users     UserStore
	JWTSecret string
}

func NewAuthHandler(users UserStore, jwtSecret string) *AuthHandler {
	return &AuthHandler{Users: users, JWTSecret: jwtSecret}
}

// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Name, Email and Password are required"})
		return
	}

	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Password must be at least 6 characters"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, "hash password", err)
		return
	}

	user, err := h.Users.Create(c.Request.Context(), req.Name, req.Email, string(hash))
	if errors.Is(err, store.ErrDuplicateEmail) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "User already exists"})
		return
	}
	if err != nil {
		serverError(c, "create user", err)
		return
	}

	token, err := generateToken(h.JWTSecret, user.ID)
	if err != nil {
		serverError(c, "generate token", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Email and Password are required"})
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials"})
		return
	}
	if err != nil {
		serverError(c, "get user", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials"})
		return
	}

	token, err := generateToken(h.JWTSecret, user.ID)
	if err != nil {
		serverError(c, "generate token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
