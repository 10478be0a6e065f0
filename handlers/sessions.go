package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/events"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/metrics"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

type createSessionRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// createSession registers the caller's token as a live session. Called by the
// client right after login.
func (s *Server) createSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest("body", "invalid JSON body")
		}
	}

	uid, sid := userID(c), sessionID(c)
	role, _ := c.Locals(localRole).(string)

	sess, err := s.sessions.CreateSession(c.UserContext(), models.Session{
		SessionID: sid,
		UserID:    uid,
		Role:      role,
		Email:     req.Email,
		Name:      req.Name,
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return err
	}
	if err := s.sessions.AddUserSession(c.UserContext(), uid, sid); err != nil {
		return err
	}

	s.logEvent(events.SessionCreated, map[string]interface{}{"user_id": uid, "session_id": sid})
	return c.Status(fiber.StatusCreated).JSON(sess)
}

func (s *Server) listSessions(c *fiber.Ctx) error {
	sessions, err := s.sessions.ListUserSessions(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"current":  sessionID(c),
		"sessions": sessions,
	})
}

func (s *Server) extendSession(c *fiber.Ctx) error {
	sess, err := s.sessions.ExtendSession(c.UserContext(), sessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"session":     sess,
		"ttl_seconds": int(s.sessions.TTL().Seconds()),
	})
}

func (s *Server) logout(c *fiber.Ctx) error {
	sid := sessionID(c)
	if err := s.sessions.InvalidateSession(c.UserContext(), sid); err != nil {
		return err
	}
	s.logEvent(events.SessionInvalidated, map[string]interface{}{"user_id": userID(c), "session_id": sid})
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) logoutAll(c *fiber.Ctx) error {
	uid := userID(c)
	n, err := s.sessions.InvalidateAllUserSessions(c.UserContext(), uid)
	if err != nil {
		return err
	}
	s.logEvent(events.UserSessionsRevoked, map[string]interface{}{"user_id": uid, "revoked": n})
	return c.JSON(fiber.Map{"revoked": n})
}

// onlineSessions godoc
// @Summary List every live session
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Router /admin/sessions/online [get]
func (s *Server) onlineSessions(c *fiber.Ctx) error {
	sessions := s.sessions.ListOnline(c.UserContext())
	metrics.SessionsOnline.Set(float64(len(sessions)))
	return c.JSON(fiber.Map{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

func (s *Server) onlineCount(c *fiber.Ctx) error {
	n := s.sessions.CountOnline(c.UserContext())
	metrics.SessionsOnline.Set(float64(n))
	return c.JSON(fiber.Map{"online": n})
}

func (s *Server) revokeUserSessions(c *fiber.Ctx) error {
	target := c.Params("id")
	n, err := s.sessions.InvalidateAllUserSessions(c.UserContext(), target)
	if err != nil {
		return err
	}
	s.logEvent(events.UserSessionsRevoked, map[string]interface{}{
		"user_id": target,
		"revoked": n,
		"by":      userID(c),
	})
	return c.JSON(fiber.Map{"user_id": target, "revoked": n})
}

func (s *Server) flushSessions(c *fiber.Ctx) error {
	if err := s.sessions.FlushAll(c.UserContext()); err != nil {
		return err
	}
	s.log.Warn("Cache flushed by admin", "user_id", userID(c))
	s.logEvent(events.SessionsFlushed, map[string]interface{}{"by": userID(c)})
	return c.JSON(fiber.Map{"message": "All sessions flushed"})
}

func (s *Server) cleanupSessions(c *fiber.Ctx) error {
	pruned := s.sessions.CleanupExpiredSessions(c.UserContext())
	metrics.SessionsPruned.Add(float64(pruned))
	s.logEvent(events.SessionsCleaned, map[string]interface{}{"pruned": pruned, "by": userID(c)})
	return c.JSON(fiber.Map{"pruned": pruned})
}
