package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examify-api/internal/domain/entity"
	"github.com/yourusername/examify-api/internal/service"
	"github.com/yourusername/examify-api/pkg/auth"
)

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	authService *service.AuthService
	jwtService  *auth.JWTService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Image    string `json:"image"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPayload возвращает несекретные поля профиля для тела ответа
func userPayload(user *entity.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"phone": user.Phone,
		"image": user.Image,
	}
}

// isAuthInputError отличает ошибки, показываемые пользователю как 400,
// от внутренних сбоев сервера
func isAuthInputError(err error) bool {
	return errors.Is(err, service.ErrMissingFields) ||
		errors.Is(err, service.ErrPasswordTooShort) ||
		errors.Is(err, service.ErrEmailTaken) ||
		errors.Is(err, service.ErrInvalidCredentials)
}

// Register обрабатывает запрос на регистрацию
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	user, err := h.authService.RegisterUser(service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Image:    req.Image,
	})
	if err != nil {
		if isAuthInputError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		log.Printf("[AuthHandler] Ошибка регистрации: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration."})
		return
	}

	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthHandler] Ошибка генерации токена после регистрации ID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during registration."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully!",
		"token":   token,
		"user":    userPayload(user),
	})
}

// Login обрабатывает запрос на вход
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		if isAuthInputError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		log.Printf("[AuthHandler] Ошибка входа: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during login."})
		return
	}

	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthHandler] Ошибка генерации токена при входе ID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during login."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful!",
		"token":   token,
		"user":    userPayload(user),
	})
}
