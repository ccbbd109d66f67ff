package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminRole     = "admin"
	adminTokenTTL = 7 * 24 * time.Hour
)

// AuthService выдаёт и проверяет админ-токены. Пароль администратора
// хэшируется один раз при старте, в памяти открытый пароль не хранится.
type AuthService struct {
	passwordHash []byte
	jwtSecret    []byte
}

func NewAuthService(adminPassword, jwtSecret string) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AuthService{
		passwordHash: hash,
		jwtSecret:    []byte(jwtSecret),
	}, nil
}

// Login сверяет пароль и выдаёт подписанный HS256-токен с ролью admin.
func (s *AuthService) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": adminRole,
		"iat":  now.Unix(),
		"exp":  now.Add(adminTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken разбирает токен и возвращает claims, если подпись и срок
// действия в порядке.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsAdmin сообщает, принадлежит ли токен администратору.
func (s *AuthService) IsAdmin(tokenString string) bool {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return false
	}
	role, _ := claims["role"].(string)
	return role == adminRole
}
