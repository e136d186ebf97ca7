package service

import (
	"errors"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"shutterhub_backend/internals/configs"
	"shutterhub_backend/internals/features/users/model"
)

var ErrInvalidGoogleToken = errors.New("invalid google id token")

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GenerateAccessToken issues the JWT consumed by the auth middleware.
func GenerateAccessToken(u *model.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   u.UserID.String(),
		"user_name": u.UserName,
		"role":      u.UserRole,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}

type GoogleProfile struct {
	Email string
	Name  string
}

// VerifyGoogleIDToken validates the token against our client id and
// extracts the profile fields we care about.
func VerifyGoogleIDToken(idToken string) (*GoogleProfile, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{configs.GoogleClientID}); err != nil {
		return nil, ErrInvalidGoogleToken
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}
	return &GoogleProfile{Email: claimSet.Email, Name: claimSet.Name}, nil
}
