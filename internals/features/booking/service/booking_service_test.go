package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"shutterhub_backend/internals/features/booking/model"
	userModel "shutterhub_backend/internals/features/users/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userModel.User{},
		&model.BookingRequest{},
		&model.Booking{},
	))
	return db
}

func newTestService(db *gorm.DB) *BookingService {
	svc := NewBookingService(db)
	svc.SnapTokenFn = func(b *model.Booking, name, email string) (string, error) {
		return "snap-test-token", nil
	}
	return svc
}

func createTestUser(t *testing.T, db *gorm.DB, name, role string) *userModel.User {
	t.Helper()
	u := userModel.User{
		UserName:  name,
		UserEmail: name + "@example.com",
		UserRole:  role,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func createTestRequest(t *testing.T, svc *BookingService, customerID, photographerID uuid.UUID) *model.BookingRequest {
	t.Helper()
	r := model.BookingRequest{
		BookingRequestCustomerID:     customerID,
		BookingRequestPhotographerID: photographerID,
		BookingRequestShootType:      "wedding",
		BookingRequestShootDate:      time.Now().Add(72 * time.Hour),
		BookingRequestUrgency:        model.UrgencyNormal,
	}
	require.NoError(t, svc.CreateRequest(&r))
	return &r
}

func acceptedBooking(t *testing.T, svc *BookingService, customerID, photographerID uuid.UUID) *model.Booking {
	t.Helper()
	r := createTestRequest(t, svc, customerID, photographerID)
	b, token, err := svc.AcceptRequest(r.BookingRequestID, photographerID, 500000, "IDR", "cust", "cust@example.com")
	require.NoError(t, err)
	require.Equal(t, "snap-test-token", token)
	return b
}

func TestAcceptRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)
	r := createTestRequest(t, svc, customer.UserID, photographer.UserID)

	b, token, err := svc.AcceptRequest(r.BookingRequestID, photographer.UserID, 500000, "IDR", "cust", "cust@example.com")
	require.NoError(t, err)
	assert.Equal(t, "snap-test-token", token)
	assert.Equal(t, model.BookingStatusConfirmed, b.BookingStatus)
	assert.Equal(t, model.PaymentStatusUnpaid, b.BookingPaymentStatus)
	assert.NotEmpty(t, b.BookingOrderID)

	var after model.BookingRequest
	require.NoError(t, db.First(&after, "booking_request_id = ?", r.BookingRequestID).Error)
	assert.Equal(t, model.RequestStatusConfirmed, after.BookingRequestStatus)

	var stored model.Booking
	require.NoError(t, db.First(&stored, "booking_id = ?", b.BookingID).Error)
	assert.Equal(t, "snap-test-token", stored.BookingSnapToken)

	// already handled
	_, _, err = svc.AcceptRequest(r.BookingRequestID, photographer.UserID, 500000, "IDR", "cust", "cust@example.com")
	assert.ErrorIs(t, err, ErrRequestNotPending)
}

func TestAcceptRequestWrongPhotographer(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)
	stranger := createTestUser(t, db, "other", userModel.RolePhotographer)
	r := createTestRequest(t, svc, customer.UserID, photographer.UserID)

	_, _, err := svc.AcceptRequest(r.BookingRequestID, stranger.UserID, 500000, "IDR", "", "")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestAcceptRequestSurvivesSnapFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBookingService(db)
	svc.SnapTokenFn = func(b *model.Booking, name, email string) (string, error) {
		return "", fmt.Errorf("gateway down")
	}

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)
	r := createTestRequest(t, svc, customer.UserID, photographer.UserID)

	b, _, err := svc.AcceptRequest(r.BookingRequestID, photographer.UserID, 500000, "IDR", "", "")
	assert.Error(t, err)
	require.NotNil(t, b)

	// the booking row is still durable
	var stored model.Booking
	require.NoError(t, db.First(&stored, "booking_id = ?", b.BookingID).Error)
	assert.Empty(t, stored.BookingSnapToken)
}

func TestDeclineRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)
	r := createTestRequest(t, svc, customer.UserID, photographer.UserID)

	require.NoError(t, svc.DeclineRequest(r.BookingRequestID, photographer.UserID))

	var after model.BookingRequest
	require.NoError(t, db.First(&after, "booking_request_id = ?", r.BookingRequestID).Error)
	assert.Equal(t, model.RequestStatusCancelled, after.BookingRequestStatus)

	assert.ErrorIs(t, svc.DeclineRequest(r.BookingRequestID, photographer.UserID), ErrRequestNotPending)
	assert.ErrorIs(t, svc.DeclineRequest(uuid.New(), photographer.UserID), ErrRequestNotFound)
}

func TestTransitionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)
	b := acceptedBooking(t, svc, customer.UserID, photographer.UserID)

	// skipping a state is rejected
	_, err := svc.Transition(b.BookingID, photographer.UserID, model.BookingStatusCompleted)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	got, err := svc.Transition(b.BookingID, photographer.UserID, model.BookingStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusInProgress, got.BookingStatus)

	// no re-entry
	_, err = svc.Transition(b.BookingID, photographer.UserID, model.BookingStatusInProgress)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	got, err = svc.Transition(b.BookingID, photographer.UserID, model.BookingStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, got.BookingStatus)

	// cancel only exists from confirmed
	_, err = svc.Transition(b.BookingID, photographer.UserID, model.BookingStatusCancelled)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTransitionCustomerCannotDriveShoot(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)
	b := acceptedBooking(t, svc, customer.UserID, photographer.UserID)

	// the photographer drives start and complete
	_, err := svc.Transition(b.BookingID, customer.UserID, model.BookingStatusInProgress)
	assert.ErrorIs(t, err, ErrNotPhotographer)

	_, err = svc.Transition(b.BookingID, photographer.UserID, model.BookingStatusInProgress)
	require.NoError(t, err)

	_, err = svc.Transition(b.BookingID, customer.UserID, model.BookingStatusCompleted)
	assert.ErrorIs(t, err, ErrNotPhotographer)

	// cancelling stays open to either party
	b2 := acceptedBooking(t, svc, customer.UserID, photographer.UserID)
	got, err := svc.Transition(b2.BookingID, customer.UserID, model.BookingStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, got.BookingStatus)
}

func TestTransitionOutsiderRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)
	stranger := createTestUser(t, db, "other", userModel.RoleCustomer)
	b := acceptedBooking(t, svc, customer.UserID, photographer.UserID)

	_, err := svc.Transition(b.BookingID, stranger.UserID, model.BookingStatusInProgress)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestHandleNotificationSettlement(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)
	b := acceptedBooking(t, svc, customer.UserID, photographer.UserID)

	require.NoError(t, svc.HandleNotification(map[string]interface{}{
		"order_id":           b.BookingOrderID,
		"transaction_status": "settlement",
	}))

	var after model.Booking
	require.NoError(t, db.First(&after, "booking_id = ?", b.BookingID).Error)
	assert.Equal(t, model.PaymentStatusPaid, after.BookingPaymentStatus)
	// payment status moves alone, booking status stays put
	assert.Equal(t, model.BookingStatusConfirmed, after.BookingStatus)
}

func TestHandleNotificationRefundOnCompletedBooking(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)
	b := acceptedBooking(t, svc, customer.UserID, photographer.UserID)

	_, err := svc.Transition(b.BookingID, photographer.UserID, model.BookingStatusInProgress)
	require.NoError(t, err)
	_, err = svc.Transition(b.BookingID, photographer.UserID, model.BookingStatusCompleted)
	require.NoError(t, err)

	require.NoError(t, svc.HandleNotification(map[string]interface{}{
		"order_id":           b.BookingOrderID,
		"transaction_status": "refund",
	}))

	var after model.Booking
	require.NoError(t, db.First(&after, "booking_id = ?", b.BookingID).Error)
	assert.Equal(t, model.PaymentStatusRefunded, after.BookingPaymentStatus)
	assert.Equal(t, model.BookingStatusRefunded, after.BookingStatus)
}

func TestHandleNotificationRefundBeforeCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)
	b := acceptedBooking(t, svc, customer.UserID, photographer.UserID)

	require.NoError(t, svc.HandleNotification(map[string]interface{}{
		"order_id":           b.BookingOrderID,
		"transaction_status": "refund",
	}))

	var after model.Booking
	require.NoError(t, db.First(&after, "booking_id = ?", b.BookingID).Error)
	assert.Equal(t, model.PaymentStatusRefunded, after.BookingPaymentStatus)
	// a confirmed booking never jumps to refunded
	assert.Equal(t, model.BookingStatusConfirmed, after.BookingStatus)
}

func TestHandleNotificationUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	err := svc.HandleNotification(map[string]interface{}{
		"order_id":           "BOOK-UNKNOWN",
		"transaction_status": "settlement",
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestHandleNotificationIgnoresPending(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)
	b := acceptedBooking(t, svc, customer.UserID, photographer.UserID)

	require.NoError(t, svc.HandleNotification(map[string]interface{}{
		"order_id":           b.BookingOrderID,
		"transaction_status": "pending",
	}))

	var after model.Booking
	require.NoError(t, db.First(&after, "booking_id = ?", b.BookingID).Error)
	assert.Equal(t, model.PaymentStatusUnpaid, after.BookingPaymentStatus)
}

func TestListRequestsFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)

	customer := createTestUser(t, db, "cust", userModel.RoleCustomer)
	photographer := createTestUser(t, db, "photo", userModel.RolePhotographer)

	createTestRequest(t, svc, customer.UserID, photographer.UserID)
	r2 := createTestRequest(t, svc, customer.UserID, photographer.UserID)
	require.NoError(t, svc.DeclineRequest(r2.BookingRequestID, photographer.UserID))

	reqs, total, err := svc.ListRequests(photographer.UserID, "photographer", model.RequestStatusPending, "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, reqs, 1)
	assert.Equal(t, model.RequestStatusPending, reqs[0].BookingRequestStatus)

	reqs, total, err = svc.ListRequests(customer.UserID, "customer", "", "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, reqs, 2)
}
