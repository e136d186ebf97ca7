package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "shutterhub_backend/internals/features/users/model"
)

// Booking lifecycle states
const (
	BookingStatusConfirmed  = "confirmed"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
	BookingStatusRefunded   = "refunded"
)

// Payment sub-states, tracked independently of the booking status
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPartial  = "partial"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

type Booking struct {
	BookingID        uuid.UUID `gorm:"column:booking_id;type:uuid;primaryKey" json:"booking_id"`
	BookingRequestID uuid.UUID `gorm:"column:booking_request_id;type:uuid;not null;uniqueIndex" json:"booking_request_id"`

	BookingCustomerID     uuid.UUID `gorm:"column:booking_customer_id;type:uuid;not null;index" json:"booking_customer_id"`
	BookingPhotographerID uuid.UUID `gorm:"column:booking_photographer_id;type:uuid;not null;index" json:"booking_photographer_id"`

	// Order id handed to the payment gateway, matched back on webhook
	BookingOrderID string `gorm:"column:booking_order_id;type:varchar(64);not null;uniqueIndex" json:"booking_order_id"`

	BookingAmount   int64  `gorm:"column:booking_amount;not null" json:"booking_amount"`
	BookingCurrency string `gorm:"column:booking_currency;type:varchar(3);not null;default:'IDR'" json:"booking_currency"`

	BookingStatus        string `gorm:"column:booking_status;type:varchar(15);not null;default:'confirmed';index" json:"booking_status"`
	BookingPaymentStatus string `gorm:"column:booking_payment_status;type:varchar(10);not null;default:'unpaid'" json:"booking_payment_status"`

	BookingSnapToken string `gorm:"column:booking_snap_token;type:text" json:"booking_snap_token,omitempty"`

	BookingCreatedAt time.Time `gorm:"column:booking_created_at;autoCreateTime" json:"booking_created_at"`
	BookingUpdatedAt time.Time `gorm:"column:booking_updated_at;autoUpdateTime" json:"booking_updated_at"`

	Customer     *userModel.User `gorm:"foreignKey:BookingCustomerID;references:UserID" json:"customer,omitempty"`
	Photographer *userModel.User `gorm:"foreignKey:BookingPhotographerID;references:UserID" json:"photographer,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.BookingID == uuid.Nil {
		b.BookingID = uuid.New()
	}
	return nil
}
