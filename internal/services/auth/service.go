// Package auth handles account registration, credential login and JWT
// refresh. Logout bumps the user's token version, invalidating every token
// issued before it.
package auth

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"printhub/internal/errors"
	"printhub/internal/models"
	"printhub/internal/repositories"
	"printhub/internal/utils"
	"printhub/internal/validation"
)

// RegisterRequest creates a customer or shop-owner account. Staff and admin
// accounts are seeded out of band.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Service interface {
	Register(req RegisterRequest) (*models.User, error)
	Login(email, phone, password, ip string) (*models.User, *TokenPair, error)
	RefreshTokens(refreshToken string) (*TokenPair, error)
	Logout(userID uint) error
	ChangePassword(userID uint, oldPassword, newPassword string) error
}

type service struct {
	users repositories.UserRepository
}

func NewService(users repositories.UserRepository) Service {
	return &service{users: users}
}

func (s *service) Register(req RegisterRequest) (*models.User, error) {
	v := validation.New()
	v.Email("email", req.Email)
	v.Phone("phone", req.Phone)
	v.Password("password", req.Password)
	v.Required("name", req.Name)
	if req.Role == "" {
		req.Role = models.RoleCustomer
	}
	v.Check(req.Role == models.RoleCustomer || req.Role == models.RoleShopOwner,
		"role", "must be customer or shop_owner")
	if !v.Valid() {
		return nil, errors.ValidationFields("INVALID_REGISTRATION", v.Errors)
	}

	if _, err := s.users.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if err != repositories.ErrUserNotFound {
		return nil, err
	}
	if _, err := s.users.FindByPhone(req.Phone); err == nil {
		return nil, ErrPhoneTaken
	} else if err != repositories.ErrUserNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Password: string(hashed),
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     req.Role,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Login(email, phone, password, ip string) (*models.User, *TokenPair, error) {
	user, err := s.findByIdentifier(email, phone)
	if err != nil {
		log.Printf("auth: login failed, unknown identifier")
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("auth: login failed, bad password for user %d", user.ID)
		return nil, nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, nil, ErrAccountBlocked
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	user.LastLoginAt = time.Now()
	user.LastLoginIP = ip
	if err := s.users.Update(user); err != nil {
		log.Printf("auth: failed to record login for user %d: %v", user.ID, err)
	}
	return user, pair, nil
}

func (s *service) RefreshTokens(refreshToken string) (*TokenPair, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrInvalidRefreshToken
	}
	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}

	return s.issueTokens(user)
}

func (s *service) Logout(userID uint) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	user.TokenVersion++
	return s.users.Update(user)
}

func (s *service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	v := validation.New()
	v.Password("password", newPassword)
	if !v.Valid() {
		return errors.ValidationFields("WEAK_PASSWORD", v.Errors)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	user.TokenVersion++ // invalidate existing tokens
	return s.users.Update(user)
}

func (s *service) issueTokens(user *models.User) (*TokenPair, error) {
	access, refresh, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) findByIdentifier(email, phone string) (*models.User, error) {
	if email != "" {
		return s.users.FindByEmail(email)
	}
	return s.users.FindByPhone(phone)
}
