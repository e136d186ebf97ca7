package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shutterhub_backend/internals/features/feed/controller"
)

// FeedRoutes: everything under the authenticated /api/u group.
func FeedRoutes(private fiber.Router, db *gorm.DB) {
	postCtl := controller.NewPostController(db)
	likeCtl := controller.NewLikeController(db)
	commentCtl := controller.NewCommentController(db)

	posts := private.Group("/posts")
	posts.Get("/", postCtl.List)
	posts.Post("/", postCtl.Create)
	posts.Get("/:post_id", postCtl.Detail)
	posts.Delete("/:post_id", postCtl.Delete)
	posts.Post("/:post_id/share", postCtl.Share)

	posts.Post("/:post_id/like", likeCtl.Toggle)
	posts.Get("/:post_id/likes", likeCtl.Likers)

	posts.Post("/:post_id/comments", commentCtl.Create)
	posts.Get("/:post_id/comments", commentCtl.List)

	private.Delete("/comments/:comment_id", commentCtl.Delete)
}
