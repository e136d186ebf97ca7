package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shutterhub_backend/internals/features/chat/controller"
	"shutterhub_backend/internals/realtime"
)

// ChatRoutes wires the group chat surface under the authenticated group.
func ChatRoutes(private fiber.Router, db *gorm.DB, hub *realtime.Hub) {
	ctl := controller.NewChatController(db, hub)

	g := private.Group("/chat/groups")
	g.Post("/", ctl.CreateGroup)
	g.Get("/", ctl.ListMyGroups)
	g.Delete("/:group_id", ctl.DeleteGroup)
	g.Post("/:group_id/join", ctl.Join)
	g.Post("/:group_id/leave", ctl.Leave)
	g.Get("/:group_id/messages", ctl.ListMessages)
	g.Post("/:group_id/messages", ctl.SendMessage)
}
