package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// ssoIssuer identifies tokens minted by the main fleet system's SSO
// bridge. Tokens from any other issuer are refused.
const ssoIssuer = "sao6_main_system"

var (
	ErrSSOTokenExpired = errors.New("sso token expired")
	ErrSSOTokenInvalid = errors.New("invalid sso token")
)

type SSOClaims struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	SSO    bool   `json:"sso"`
	Issuer string `json:"issuer"`
	jwt.RegisteredClaims
}

// VerifySSOToken validates an externally-issued SSO token. Expiry gets a
// dedicated error so the caller can answer "expired" rather than a
// generic "invalid".
func VerifySSOToken(secret, tokenString string) (*SSOClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SSOClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSSOTokenExpired
		}
		return nil, ErrSSOTokenInvalid
	}

	claims, ok := token.Claims.(*SSOClaims)
	if !ok || !token.Valid {
		return nil, ErrSSOTokenInvalid
	}
	if !claims.SSO || claims.Issuer != ssoIssuer {
		return nil, ErrSSOTokenInvalid
	}
	return claims, nil
}
