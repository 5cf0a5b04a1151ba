package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"

	"hitolicious-api/internal/apperr"
	"hitolicious-api/internal/models"
	"hitolicious-api/internal/store"
	"hitolicious-api/internal/util"
)

// AuthService verifies customer and admin credentials. Passwords are stored
// as bcrypt hashes; the comparison never distinguishes an unknown account
// from a wrong password.
type AuthService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store) *AuthService {
	return &AuthService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// SignupRequest represents a customer account creation request
type SignupRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Birthday string `json:"birthday"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// SigninRequest represents a credential check request
type SigninRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupCustomer creates a storefront account with a hashed password
func (s *AuthService) SignupCustomer(ctx context.Context, req *SignupRequest) (*models.Customer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &models.Customer{
		FullName:     req.FullName,
		Birthday:     req.Birthday,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
	}

	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer account created", zap.String("email", customer.Email))
	return customer, nil
}

// SigninCustomer verifies customer credentials and returns the account
func (s *AuthService) SigninCustomer(ctx context.Context, req *SigninRequest) (*models.Customer, error) {
	customer, err := s.store.GetCustomerByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, &apperr.InvalidCredentialsError{}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &apperr.InvalidCredentialsError{}
	}

	return customer, nil
}

// SigninAdmin verifies admin credentials and returns the account
func (s *AuthService) SigninAdmin(ctx context.Context, req *SigninRequest) (*models.Admin, error) {
	admin, err := s.store.GetAdminByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, &apperr.InvalidCredentialsError{}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &apperr.InvalidCredentialsError{}
	}

	return admin, nil
}
