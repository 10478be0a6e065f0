package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/metrics"
)

// onlineFeed pushes the live session count to an admin dashboard right away
// and then on every tick until the client goes away.
func (s *Server) onlineFeed(c *websocket.Conn) {
	uid, _ := c.Locals(localUserID).(string)
	s.log.Info("Online feed connected", "user_id", uid)
	defer s.log.Info("Online feed disconnected", "user_id", uid)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.onlineInterval)
	defer ticker.Stop()

	for {
		n := s.sessions.CountOnline(context.Background())
		metrics.SessionsOnline.Set(float64(n))

		if err := c.WriteJSON(fiber.Map{
			"online": n,
			"time":   time.Now().Unix(),
		}); err != nil {
			return
		}

		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}
