package http

import (
	"errors"
	"strings"

	"github.com/everscaleid/backend/internal/common"
	"github.com/everscaleid/backend/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

const sessionLocal = "session"

// sessionMiddleware resolves the bearer token into a session and stores it in
// the request locals. A missing, unknown, or expired token simply yields no
// session; every protected handler enforces Forbidden on its own.
func (s *Server) sessionMiddleware(c *fiber.Ctx) error {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return c.Next()
	}

	session, err := s.auth.ResolveSession(c.UserContext(), token)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return writeError(c, common.ErrInternal)
		}
		return c.Next()
	}

	c.Locals(sessionLocal, session)
	return c.Next()
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// currentSession returns the resolved session of the request, or nil.
func currentSession(c *fiber.Ctx) *models.Session {
	session, _ := c.Locals(sessionLocal).(*models.Session)
	return session
}

// clientIP prefers the first entry of X-Forwarded-For and falls back to the
// socket peer.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return c.IP()
}
