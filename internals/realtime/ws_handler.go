package realtime

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	helper "shutterhub_backend/internals/helpers"
)

// UpgradeRequired rejects plain HTTP requests on the websocket path before the
// upgrade handler runs.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return helper.JsonError(c, fiber.StatusUpgradeRequired, "websocket upgrade required")
}

// Handler returns the websocket endpoint. Auth middleware already ran on the
// upgrade request, so identity comes from the fiber locals captured there.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(string)
		userName, _ := conn.Locals("user_name").(string)
		if userID == "" {
			conn.Close()
			return
		}

		client := NewClient(hub, conn, userID, userName)
		client.Run()
	})
}
