package middleware

import (
	"testing"
	"time"

	"rutaventas/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func sign(t *testing.T, method jwt.SigningMethod, secret string, claims JWTClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func claimsFor(userID, rol string, exp time.Duration) JWTClaims {
	return JWTClaims{
		UserID: userID, Username: "u", Rol: rol,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(exp))},
	}
}

func TestParseToken(t *testing.T) {
	id := uuid.New()

	p, err := ParseToken(sign(t, jwt.SigningMethodHS256, testSecret, claimsFor(id.String(), "vendedor", time.Hour)), testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, model.RolVendedor, p.Rol)

	cases := map[string]string{
		"expirado":        sign(t, jwt.SigningMethodHS256, testSecret, claimsFor(id.String(), "vendedor", -time.Hour)),
		"otra clave":      sign(t, jwt.SigningMethodHS256, "otra_clave_de_32_caracteres_xxxxx", claimsFor(id.String(), "vendedor", time.Hour)),
		"id mal formado":  sign(t, jwt.SigningMethodHS256, testSecret, claimsFor("abc", "vendedor", time.Hour)),
		"rol desconocido": sign(t, jwt.SigningMethodHS256, testSecret, claimsFor(id.String(), "cajero", time.Hour)),
		"basura":          "a.b.c",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tok, testSecret)
			assert.Error(t, err)
		})
	}
}
