package dto

import (
	"time"

	"github.com/google/uuid"

	"shutterhub_backend/internals/features/booking/model"
	userDto "shutterhub_backend/internals/features/users/dto"
)

type CreateRequestRequest struct {
	PhotographerID uuid.UUID `json:"photographer_id" validate:"required"`
	ShootType      string    `json:"shoot_type" validate:"required,max=50"`
	ShootDate      time.Time `json:"shoot_date" validate:"required"`
	Location       string    `json:"location" validate:"max=255"`
	Notes          string    `json:"notes" validate:"max=2000"`
	Urgency        string    `json:"urgency" validate:"omitempty,oneof=low normal high"`
}

type AcceptRequestRequest struct {
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Currency string `json:"currency" validate:"omitempty,len=3,uppercase"`
}

type RequestResponse struct {
	RequestID    uuid.UUID             `json:"request_id"`
	ShootType    string                `json:"shoot_type"`
	ShootDate    time.Time             `json:"shoot_date"`
	Location     string                `json:"location"`
	Notes        string                `json:"notes"`
	Urgency      string                `json:"urgency"`
	Status       string                `json:"status"`
	Customer     *userDto.UserResponse `json:"customer,omitempty"`
	Photographer *userDto.UserResponse `json:"photographer,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

type BookingResponse struct {
	BookingID     uuid.UUID             `json:"booking_id"`
	RequestID     uuid.UUID             `json:"request_id"`
	OrderID       string                `json:"order_id"`
	Amount        int64                 `json:"amount"`
	Currency      string                `json:"currency"`
	Status        string                `json:"status"`
	PaymentStatus string                `json:"payment_status"`
	SnapToken     string                `json:"snap_token,omitempty"`
	Customer      *userDto.UserResponse `json:"customer,omitempty"`
	Photographer  *userDto.UserResponse `json:"photographer,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

func FromModelRequest(r *model.BookingRequest) RequestResponse {
	resp := RequestResponse{
		RequestID: r.BookingRequestID,
		ShootType: r.BookingRequestShootType,
		ShootDate: r.BookingRequestShootDate,
		Location:  r.BookingRequestLocation,
		Notes:     r.BookingRequestNotes,
		Urgency:   r.BookingRequestUrgency,
		Status:    r.BookingRequestStatus,
		CreatedAt: r.BookingRequestCreatedAt,
	}
	if r.Customer != nil {
		u := userDto.FromModelUser(r.Customer)
		resp.Customer = &u
	}
	if r.Photographer != nil {
		u := userDto.FromModelUser(r.Photographer)
		resp.Photographer = &u
	}
	return resp
}

func FromModelBooking(b *model.Booking) BookingResponse {
	resp := BookingResponse{
		BookingID:     b.BookingID,
		RequestID:     b.BookingRequestID,
		OrderID:       b.BookingOrderID,
		Amount:        b.BookingAmount,
		Currency:      b.BookingCurrency,
		Status:        b.BookingStatus,
		PaymentStatus: b.BookingPaymentStatus,
		SnapToken:     b.BookingSnapToken,
		CreatedAt:     b.BookingCreatedAt,
	}
	if b.Customer != nil {
		u := userDto.FromModelUser(b.Customer)
		resp.Customer = &u
	}
	if b.Photographer != nil {
		u := userDto.FromModelUser(b.Photographer)
		resp.Photographer = &u
	}
	return resp
}
