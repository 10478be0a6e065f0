package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt"
)

const (
	roleAdmin = "admin"

	localUserID    = "user_id"
	localRole      = "role"
	localSessionID = "session_id"
)

type tokenSource func(c *fiber.Ctx) string

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func queryToken(c *fiber.Ctx) string {
	return c.Query("token")
}

// authenticate verifies an HS256 token and stores the caller in locals. With
// requireSession the token's session must be live in the directory and its
// expiry slides forward; without it only the signature is checked, which is
// what the session registration route needs.
func (s *Server) authenticate(source tokenSource, requireSession bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := source(c)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return s.jwtSecret, nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		userID := claimString(claims, "user_id")
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token has no user_id")
		}

		sessionID := claimString(claims, "jti")
		if sessionID == "" {
			sessionID = tokenSessionID(raw)
		}

		c.Locals(localUserID, userID)
		c.Locals(localRole, claimString(claims, "role"))
		c.Locals(localSessionID, sessionID)

		if !requireSession {
			return c.Next()
		}

		live, err := s.sessions.UpdateActivity(c.UserContext(), sessionID)
		if err != nil {
			if !live {
				return err
			}
			s.log.Warn("Failed to update session activity", "session_id", sessionID, "error", err)
		}
		if !live {
			return fiber.NewError(fiber.StatusUnauthorized, "session expired or revoked")
		}
		return c.Next()
	}
}

func requireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r, _ := c.Locals(localRole).(string); r != role {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// tokenSessionID derives a stable session key from tokens without a jti.
func tokenSessionID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(localSessionID).(string)
	return id
}
