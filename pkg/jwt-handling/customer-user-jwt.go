package jwthandling

import (
	"fmt"
	"time"

	userTypes "github.com/zacki-div/resto-backend/pkg/user-management/types"
	"github.com/golang-jwt/jwt/v5"
)

// Information a token encodes
type CustomerUserClaims struct {
	Email string         `json:"email,omitempty"`
	Role  userTypes.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewCustomerUserToken(
	expiresIn time.Duration,
	id string,
	email string,
	role userTypes.Role,
	secretKey string,
) (tokenString string, err error) {
	claims := CustomerUserClaims{
		email,
		role,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   id,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func ValidateCustomerUserToken(tokenString string, secretKey string) (claims *CustomerUserClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomerUserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*CustomerUserClaims)
	valid = valid && token.Valid
	return
}
