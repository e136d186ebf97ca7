package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shutterhub_backend/internals/features/booking/model"
)

var (
	ErrRequestNotFound   = errors.New("booking request not found")
	ErrRequestNotPending = errors.New("booking request is not pending")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrNotParticipant    = errors.New("user is not part of this booking")
	ErrNotPhotographer   = errors.New("only the booking's photographer may do this")
	ErrIllegalTransition = errors.New("illegal booking status transition")
)

type BookingService struct {
	DB *gorm.DB

	// swappable for tests, defaults to the Midtrans snap client
	SnapTokenFn func(b *model.Booking, name, email string) (string, error)
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{
		DB:          db,
		SnapTokenFn: GenerateSnapToken,
	}
}

// CreateRequest stores a new pending booking request.
func (s *BookingService) CreateRequest(r *model.BookingRequest) error {
	r.BookingRequestStatus = model.RequestStatusPending
	return s.DB.Create(r).Error
}

// ListRequests pages the requests visible to the user: customers see the ones
// they sent, photographers the ones addressed to them.
func (s *BookingService) ListRequests(userID uuid.UUID, role, status, urgency string, page, perPage int) ([]model.BookingRequest, int64, error) {
	q := s.DB.Model(&model.BookingRequest{})
	if role == "photographer" {
		q = q.Where("booking_request_photographer_id = ?", userID)
	} else {
		q = q.Where("booking_request_customer_id = ?", userID)
	}
	if status != "" {
		q = q.Where("booking_request_status = ?", status)
	}
	if urgency != "" {
		q = q.Where("booking_request_urgency = ?", urgency)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []model.BookingRequest
	err := q.Preload("Customer").Preload("Photographer").
		Order("booking_request_created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&reqs).Error
	return reqs, total, err
}

func (s *BookingService) findRequest(tx *gorm.DB, requestID uuid.UUID) (*model.BookingRequest, error) {
	var r model.BookingRequest
	err := tx.Where("booking_request_id = ?", requestID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// AcceptRequest confirms a pending request and opens the booking from it,
// both in one transaction. The snap token is minted after commit so a
// gateway hiccup never loses the booking; payment can be retried later.
func (s *BookingService) AcceptRequest(requestID, photographerID uuid.UUID, amount int64, currency, customerName, customerEmail string) (*model.Booking, string, error) {
	var booking *model.Booking

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.findRequest(tx, requestID)
		if err != nil {
			return err
		}
		if r.BookingRequestPhotographerID != photographerID {
			return ErrNotParticipant
		}
		if r.BookingRequestStatus != model.RequestStatusPending {
			return ErrRequestNotPending
		}

		if err := tx.Model(&model.BookingRequest{}).
			Where("booking_request_id = ?", requestID).
			UpdateColumn("booking_request_status", model.RequestStatusConfirmed).Error; err != nil {
			return err
		}

		booking = &model.Booking{
			BookingRequestID:      requestID,
			BookingCustomerID:     r.BookingRequestCustomerID,
			BookingPhotographerID: r.BookingRequestPhotographerID,
			BookingOrderID:        "BOOK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")),
			BookingAmount:         amount,
			BookingCurrency:       currency,
			BookingStatus:         model.BookingStatusConfirmed,
			BookingPaymentStatus:  model.PaymentStatusUnpaid,
		}
		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, "", err
	}

	token, tokenErr := s.SnapTokenFn(booking, customerName, customerEmail)
	if tokenErr == nil && token != "" {
		booking.BookingSnapToken = token
		if err := s.DB.Model(&model.Booking{}).
			Where("booking_id = ?", booking.BookingID).
			UpdateColumn("booking_snap_token", token).Error; err != nil {
			return booking, token, err
		}
	}
	return booking, token, tokenErr
}

// DeclineRequest moves a pending request to cancelled.
func (s *BookingService) DeclineRequest(requestID, photographerID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		r, err := s.findRequest(tx, requestID)
		if err != nil {
			return err
		}
		if r.BookingRequestPhotographerID != photographerID {
			return ErrNotParticipant
		}
		if r.BookingRequestStatus != model.RequestStatusPending {
			return ErrRequestNotPending
		}
		return tx.Model(&model.BookingRequest{}).
			Where("booking_request_id = ?", requestID).
			UpdateColumn("booking_request_status", model.RequestStatusCancelled).Error
	})
}

func (s *BookingService) findBooking(tx *gorm.DB, bookingID uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := tx.Where("booking_id = ?", bookingID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Transition moves a booking along the state machine. The photographer drives
// the shoot forward (start, complete); either party may cancel. Every edge is
// checked against CanTransition.
func (s *BookingService) Transition(bookingID, actorID uuid.UUID, to string) (*model.Booking, error) {
	var out *model.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		b, err := s.findBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if b.BookingPhotographerID != actorID && b.BookingCustomerID != actorID {
			return ErrNotParticipant
		}
		if to != model.BookingStatusCancelled && b.BookingPhotographerID != actorID {
			return ErrNotPhotographer
		}
		if !CanTransition(b.BookingStatus, to) {
			return ErrIllegalTransition
		}
		if err := tx.Model(&model.Booking{}).
			Where("booking_id = ?", bookingID).
			UpdateColumn("booking_status", to).Error; err != nil {
			return err
		}
		b.BookingStatus = to
		out = b
		return nil
	})
	return out, err
}

// ListBookings pages the bookings the user participates in.
func (s *BookingService) ListBookings(userID uuid.UUID, role, status string, page, perPage int) ([]model.Booking, int64, error) {
	q := s.DB.Model(&model.Booking{})
	if role == "photographer" {
		q = q.Where("booking_photographer_id = ?", userID)
	} else {
		q = q.Where("booking_customer_id = ?", userID)
	}
	if status != "" {
		q = q.Where("booking_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []model.Booking
	err := q.Preload("Customer").Preload("Photographer").
		Order("booking_created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&bookings).Error
	return bookings, total, err
}
