package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "shutterhub_backend/internals/features/users/model"
)

const (
	RequestStatusPending   = "pending"
	RequestStatusConfirmed = "confirmed"
	RequestStatusCancelled = "cancelled"
)

const (
	UrgencyLow    = "low"
	UrgencyNormal = "normal"
	UrgencyHigh   = "high"
)

type BookingRequest struct {
	BookingRequestID             uuid.UUID `gorm:"column:booking_request_id;type:uuid;primaryKey" json:"booking_request_id"`
	BookingRequestCustomerID     uuid.UUID `gorm:"column:booking_request_customer_id;type:uuid;not null;index" json:"booking_request_customer_id"`
	BookingRequestPhotographerID uuid.UUID `gorm:"column:booking_request_photographer_id;type:uuid;not null;index" json:"booking_request_photographer_id"`

	BookingRequestShootType string    `gorm:"column:booking_request_shoot_type;type:varchar(50);not null" json:"booking_request_shoot_type"`
	BookingRequestShootDate time.Time `gorm:"column:booking_request_shoot_date;not null" json:"booking_request_shoot_date"`
	BookingRequestLocation  string    `gorm:"column:booking_request_location;type:varchar(255)" json:"booking_request_location"`
	BookingRequestNotes     string    `gorm:"column:booking_request_notes;type:text" json:"booking_request_notes"`
	BookingRequestUrgency   string    `gorm:"column:booking_request_urgency;type:varchar(10);not null;default:'normal'" json:"booking_request_urgency"`
	BookingRequestStatus    string    `gorm:"column:booking_request_status;type:varchar(15);not null;default:'pending';index" json:"booking_request_status"`

	BookingRequestCreatedAt time.Time `gorm:"column:booking_request_created_at;autoCreateTime" json:"booking_request_created_at"`
	BookingRequestUpdatedAt time.Time `gorm:"column:booking_request_updated_at;autoUpdateTime" json:"booking_request_updated_at"`

	Customer     *userModel.User `gorm:"foreignKey:BookingRequestCustomerID;references:UserID" json:"customer,omitempty"`
	Photographer *userModel.User `gorm:"foreignKey:BookingRequestPhotographerID;references:UserID" json:"photographer,omitempty"`
}

func (BookingRequest) TableName() string {
	return "booking_requests"
}

func (r *BookingRequest) BeforeCreate(tx *gorm.DB) error {
	if r.BookingRequestID == uuid.Nil {
		r.BookingRequestID = uuid.New()
	}
	return nil
}
