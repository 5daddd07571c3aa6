package middleware

import (
	"net/http"
	"strings"

	"rutaventas/internal/apierror"
	"rutaventas/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	PrincipalKey = "principal"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller, resolved once per request.
type Principal struct {
	ID       uuid.UUID
	Username string
	Rol      model.Rol
}

// ParseToken verifies tokenStr and normalizes its claims into a Principal.
// Tokens with a malformed user id or an unknown role are rejected.
func ParseToken(tokenStr, secret string) (*Principal, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.Unauthorized("Token invalido o expirado")
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierror.Unauthorized("Token mal formado")
	}
	rol, ok := model.ParseRol(claims.Rol)
	if !ok {
		return nil, apierror.Unauthorized("Rol desconocido")
	}
	return &Principal{ID: id, Username: claims.Username, Rol: rol}, nil
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		p, err := ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(err.Error()))
			return
		}

		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// RequireRole rejects requests whose principal role is not in the allowed list.
func RequireRole(roles ...model.Rol) gin.HandlerFunc {
	allowed := make(map[model.Rol]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil || !allowed[p.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil on public routes.
func GetPrincipal(c *gin.Context) *Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*Principal)
	return p
}
