package service

import (
	"errors"

	"gorm.io/gorm"

	"shutterhub_backend/internals/features/booking/model"
	"shutterhub_backend/internals/observability/logger"
)

// HandleNotification applies one Midtrans notification to the booking matched
// by order id. Payment status moves independently of the booking status; the
// one coupling is a full refund on a completed booking, which also moves the
// booking itself to refunded.
func (s *BookingService) HandleNotification(body map[string]interface{}) error {
	orderID, _ := body["order_id"].(string)
	transactionStatus, _ := body["transaction_status"].(string)
	if orderID == "" || transactionStatus == "" {
		return errors.New("notification missing order_id or transaction_status")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var b model.Booking
		err := tx.Where("booking_order_id = ?", orderID).First(&b).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}

		switch transactionStatus {
		case "settlement", "capture", "success":
			updates["booking_payment_status"] = model.PaymentStatusPaid
		case "partial_refund":
			updates["booking_payment_status"] = model.PaymentStatusPartial
		case "refund":
			updates["booking_payment_status"] = model.PaymentStatusRefunded
			if CanTransition(b.BookingStatus, model.BookingStatusRefunded) {
				updates["booking_status"] = model.BookingStatusRefunded
			}
		case "expire", "cancel", "deny", "failure":
			updates["booking_payment_status"] = model.PaymentStatusUnpaid
		default:
			// pending and friends, nothing to record
			logger.Log.Debug().
				Str("order_id", orderID).
				Str("transaction_status", transactionStatus).
				Msg("ignoring payment notification status")
			return nil
		}

		return tx.Model(&model.Booking{}).
			Where("booking_id = ?", b.BookingID).
			Updates(updates).Error
	})
}
