package database

import (
	"log"

	bookingModel "shutterhub_backend/internals/features/booking/model"
	chatModel "shutterhub_backend/internals/features/chat/model"
	feedModel "shutterhub_backend/internals/features/feed/model"
	galleryModel "shutterhub_backend/internals/features/gallery/model"
	userModel "shutterhub_backend/internals/features/users/model"
)

// MigrateAll runs the schema migrations in dependency order.
func MigrateAll() {
	err := DB.AutoMigrate(
		&userModel.User{},

		&feedModel.Post{},
		&feedModel.PostLike{},
		&feedModel.PostComment{},

		&galleryModel.Gallery{},
		&galleryModel.GalleryPhoto{},

		&chatModel.ChatGroup{},
		&chatModel.ChatGroupMember{},
		&chatModel.ChatMessage{},

		&bookingModel.BookingRequest{},
		&bookingModel.Booking{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Migrations applied.")
}
