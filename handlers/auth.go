package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"intervue/database"
	"intervue/middleware"
	"intervue/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Check if email already exists
	var existingUser models.User
	err := database.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existingUser)
	if err == nil {
		respondError(c, http.StatusConflict, "Email already in use")
		return
	}
	if err != mongo.ErrNoDocuments {
		respondInternal(c, "Database error", err)
		return
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondInternal(c, "Failed to hash password", err)
		return
	}
	hashed := string(hashedPassword)

	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        req.Email,
		PasswordHash: &hashed,
		Name:         req.Name,
		Role:         models.RoleUser,
		IsVerified:   true,
		CreatedAt:    time.Now().Unix(),
		LastSeen:     time.Now().Unix(),
	}

	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		respondInternal(c, "Failed to create user", err)
		return
	}

	tokenString, err := issueToken(&user)
	if err != nil {
		respondInternal(c, "Failed to generate token", err)
		return
	}

	setAuthCookie(c, tokenString)
	respondOK(c, http.StatusCreated, "User created successfully", gin.H{
		"token":  tokenString,
		"userId": user.ID.Hex(),
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		respondInternal(c, "Database error", err)
		return
	}

	if user.PasswordHash == nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokenString, err := issueToken(&user)
	if err != nil {
		respondInternal(c, "Failed to generate token", err)
		return
	}

	setAuthCookie(c, tokenString)
	respondOK(c, http.StatusOK, "Login successful", gin.H{
		"token":  tokenString,
		"userId": user.ID.Hex(),
		"role":   user.Role,
	})
}

func issueToken(user *models.User) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &middleware.Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func setAuthCookie(c *gin.Context, token string) {
	c.SetCookie("token", token, int((24 * time.Hour).Seconds()), "/", "", false, true)
}
