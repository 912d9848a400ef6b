package services

import (
	"context"
	"crypto/rsa"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/models"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

const AccessTokenExpiry = 24 * time.Hour

type AuthService struct {
	users      repositories.UserRepository
	privateKey *rsa.PrivateKey
}

func NewAuthService(users repositories.UserRepository, privateKey *rsa.PrivateKey) *AuthService {
	return &AuthService{users: users, privateKey: privateKey}
}

// Login verifies the credentials and returns a signed access token. The same
// generic 401 covers unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, "", utils.InternalError(err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthenticated,
			"invalid email or password", nil)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", utils.InternalError(err)
	}
	return user, token, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  "Plumbtix",
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"exp":  now.Add(AccessTokenExpiry).Unix(),
		"iat":  now.Unix(),
		"jti":  uuid.NewString(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return tok.SignedString(s.privateKey)
}
