package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	basehdl "github.com/JennyYuanZW/JianshanPortal/internal/api/base/handler"
	"github.com/JennyYuanZW/JianshanPortal/internal/common"
	"github.com/JennyYuanZW/JianshanPortal/internal/global"
	"github.com/JennyYuanZW/JianshanPortal/internal/logger"
)

// AuthClaims are the JWT claims carried by a session token.
type AuthClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// ValidateToken parses and verifies an HS256 session token.
func ValidateToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return []byte(global.ServerConfig.JwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	if claims.UserID == "" || claims.Email == "" {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}

// AuthRequired verifies the bearer token and stores the caller identity in
// Locals under user_id, user_email and user_name.
func AuthRequired() fiber.Handler {
	return func(c fiber.Ctx) error {
		bearer := strings.TrimSpace(c.Get("Authorization"))
		if bearer == "" {
			basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		if len(bearer) < 7 || !strings.EqualFold(bearer[:7], "Bearer ") {
			basehdl.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}
		tokenString := strings.TrimSpace(bearer[7:])

		claims, err := ValidateToken(tokenString)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", strings.ToLower(claims.Email))
		c.Locals("user_name", claims.Name)

		return c.Next()
	}
}

// AdminChecker reports whether the authenticated identity may use the admin
// endpoints. Implemented by the auth domain's authorization policy.
type AdminChecker interface {
	IsAuthorized(email string) bool
}

// AdminRequired allows only identities the policy accepts. Must run after
// AuthRequired.
func AdminRequired(policy AdminChecker) fiber.Handler {
	return func(c fiber.Ctx) error {
		email, _ := c.Locals("user_email").(string)
		if email == "" {
			basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}

		if !policy.IsAuthorized(email) {
			logger.GetAuditLogger().WithField("email", email).Warn("Admin access denied")
			basehdl.HandleResponse(c, nil, common.ErrNotAdmin)
			return nil
		}

		return c.Next()
	}
}
