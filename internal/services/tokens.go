package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"siwes-backend-go/internal/models"
)

var (
	ErrTokenInvalid = ErrUnauthorized("Token is not valid")
	ErrTokenExpired = ErrUnauthorized("Token has expired")
)

// TokenClaims is the verified identity carried by an access token.
type TokenClaims struct {
	UserID string
	Email  string
	Role   models.Role
}

type TokenService struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (t TokenService) CreateAccessToken(user models.User) (string, int64, error) {
	now := time.Now().UTC()
	exp := now.Add(t.AccessTTL)
	claims := jwt.MapClaims{
		"iss":   t.Issuer,
		"sub":   user.ID,
		"typ":   "access",
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Secret)
	return signed, exp.Unix(), err
}

func (t TokenService) CreateRefreshToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss": t.Issuer,
		"sub": userID,
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(t.RefreshTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

// VerifyAccessToken parses and checks an access token, distinguishing
// expiry from any other tampering or format problem.
func (t TokenService) VerifyAccessToken(tokenStr string) (TokenClaims, error) {
	claims, err := t.parse(tokenStr)
	if err != nil {
		return TokenClaims{}, err
	}
	if claims["typ"] != "access" {
		return TokenClaims{}, ErrTokenInvalid
	}
	userID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !models.Role(role).Valid() {
		return TokenClaims{}, ErrTokenInvalid
	}
	return TokenClaims{UserID: userID, Email: email, Role: models.Role(role)}, nil
}

// VerifyRefreshToken returns the subject user id of a valid refresh token.
func (t TokenService) VerifyRefreshToken(tokenStr string) (string, error) {
	claims, err := t.parse(tokenStr)
	if err != nil {
		return "", err
	}
	if claims["typ"] != "refresh" {
		return "", ErrTokenInvalid
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return "", ErrTokenInvalid
	}
	return userID, nil
}

func (t TokenService) parse(tokenStr string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.Secret, nil
	}, jwt.WithIssuer(t.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
