package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"rentique/internal/models"
	"rentique/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterUser registers a new user, hashes their password, and saves
// them. The role is always forced to "user"; admins are promoted through
// the admin user-management surface, never at registration.
func (s *AuthService) RegisterUser(user *models.User) error {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return &ConflictError{Field: "email", Message: fmt.Sprintf("email '%s' already registered", email)}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.Email = email
	user.Role = models.RoleUser
	user.IsActive = true

	if err := s.userRepo.Create(user); err != nil {
		if isUniqueViolation(err) {
			return &ConflictError{Field: "email", Message: fmt.Sprintf("email '%s' already registered", email)}
		}
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", nil, &ForbiddenError{Message: "invalid credentials"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, &ForbiddenError{Message: "invalid credentials"}
	}

	if !user.IsActive {
		return "", nil, &ForbiddenError{Message: "account is deactivated"}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, user, nil
}

// ValidateToken parses and validates a JWT token, returning the actor
// identity it carries.
func (s *AuthService) ValidateToken(tokenString string) (Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return Actor{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Actor{}, fmt.Errorf("invalid token")
	}

	id, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if id == "" {
		return Actor{}, fmt.Errorf("invalid token: missing subject")
	}
	return Actor{ID: id, Role: role}, nil
}
