// Command simclient drives a running server the way the mobile app does:
// it registers a session, prices deliveries to every known landmark and then
// watches the admin online feed.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/location"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/logger"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "server host:port")
	secret := flag.String("secret", "my-secret-key", "JWT secret shared with the server")
	updates := flag.Int("updates", 3, "online feed updates to read before exiting")
	flag.Parse()

	log := logger.New("simclient", "info")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "sim-admin",
		"role":    "admin",
		"jti":     uuid.NewString(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(*secret))
	if err != nil {
		log.Error("Failed to sign token", "error", err)
		os.Exit(1)
	}

	c := &client{base: "http://" + *addr + "/api/v1", token: token, http: &http.Client{Timeout: 10 * time.Second}}

	// 1. Register the session
	var sess models.Session
	if err := c.call(http.MethodPost, "/sessions", map[string]string{"name": "Simulator"}, &sess); err != nil {
		log.Error("Failed to create session", "error", err)
		os.Exit(1)
	}
	log.Info("Session created", "session_id", sess.SessionID)

	// 2. Price a delivery to every landmark
	for _, lm := range location.DefaultRegistry().Landmarks() {
		var out struct {
			Quote models.DistanceQuote `json:"quote"`
		}
		body := map[string]interface{}{
			"latitude":  lm.Point.Latitude,
			"longitude": lm.Point.Longitude,
			"order_id":  "SIM-" + uuid.NewString()[:8],
		}
		if err := c.call(http.MethodPost, "/delivery/quote", body, &out); err != nil {
			log.Warn("Quote failed", "landmark", lm.Name, "error", err)
			continue
		}
		log.Info("Quote",
			"landmark", lm.Name,
			"distance_m", out.Quote.DistanceMeters,
			"eta_min", out.Quote.EstimatedMinutes,
			"fee", out.Quote.FeeAmount,
			"area", out.Quote.AreaName,
		)
	}

	// 3. Watch the online feed
	if err := watchOnline(*addr, token, *updates, log); err != nil {
		log.Error("Online feed failed", "error", err)
	}

	if err := c.call(http.MethodDelete, "/sessions/current", nil, nil); err != nil {
		log.Warn("Logout failed", "error", err)
	}
}

type client struct {
	base  string
	token string
	http  *http.Client
}

func (c *client) call(method, path string, in, out interface{}) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, c.base+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, e.Error)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func watchOnline(addr, token string, updates int, log *logger.Logger) error {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws/online", RawQuery: "token=" + url.QueryEscape(token)}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for i := 0; i < updates; i++ {
		var update map[string]interface{}
		if err := conn.ReadJSON(&update); err != nil {
			return err
		}
		log.Info("Online update", "online", update["online"])
	}
	return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
