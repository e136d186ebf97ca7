package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"shutterhub_backend/internals/features/gallery/model"
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
		&model.Gallery{},
		&model.GalleryPhoto{},
	))
	return db
}

type galleryOpts struct {
	privacy   string
	password  string
	expiresAt *time.Time
	downloads bool
	photos    int
}

func createTestGallery(t *testing.T, db *gorm.DB, opts galleryOpts) *model.Gallery {
	t.Helper()

	hash := ""
	if opts.password != "" {
		raw, err := bcrypt.GenerateFromPassword([]byte(opts.password), bcrypt.DefaultCost)
		require.NoError(t, err)
		hash = string(raw)
	}

	g := model.Gallery{
		GalleryPhotographerID:  uuid.New(),
		GalleryQRToken:         uuid.NewString(),
		GalleryTitle:           "wedding set",
		GalleryPrivacy:         opts.privacy,
		GalleryPasswordHash:    hash,
		GalleryExpiresAt:       opts.expiresAt,
		GalleryDownloadEnabled: opts.downloads,
	}
	require.NoError(t, db.Create(&g).Error)

	for i := 0; i < opts.photos; i++ {
		p := model.GalleryPhoto{
			GalleryPhotoGalleryID:    g.GalleryID,
			GalleryPhotoURL:          fmt.Sprintf("https://cdn.example.com/%d.webp", i),
			GalleryPhotoDisplayOrder: i,
		}
		require.NoError(t, db.Create(&p).Error)
	}
	g.GalleryPhotosCount = int64(opts.photos)
	require.NoError(t, db.Model(&model.Gallery{}).
		Where("gallery_id = ?", g.GalleryID).
		UpdateColumn("gallery_photos_count", opts.photos).Error)
	return &g
}

func accessCount(t *testing.T, db *gorm.DB, galleryID uuid.UUID) int64 {
	t.Helper()
	var g model.Gallery
	require.NoError(t, db.First(&g, "gallery_id = ?", galleryID).Error)
	return g.GalleryAccessCount
}

func TestAccessPublicGallery(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService(db)
	ctx := context.Background()

	g := createTestGallery(t, db, galleryOpts{privacy: model.PrivacyPublic, downloads: true, photos: 3})

	res, err := svc.Access(ctx, g.GalleryQRToken)
	require.NoError(t, err)
	assert.False(t, res.PasswordRequired)
	assert.Len(t, res.Photos, 3)
	// photos come back in display order
	for i, p := range res.Photos {
		assert.Equal(t, i, p.GalleryPhotoDisplayOrder)
	}
	assert.EqualValues(t, 1, accessCount(t, db, g.GalleryID))
}

func TestDownloadDisabledFlagPersists(t *testing.T) {
	db := setupTestDB(t)

	g := createTestGallery(t, db, galleryOpts{privacy: model.PrivacyPublic, downloads: false, photos: 1})

	// a gallery created with downloads off must stay off after the insert
	var stored model.Gallery
	require.NoError(t, db.First(&stored, "gallery_id = ?", g.GalleryID).Error)
	assert.False(t, stored.GalleryDownloadEnabled)
}

func TestAccessUnknownToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService(db)

	_, err := svc.Access(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrGalleryNotFound)
}

func TestAccessExpiredGalleryIsGoneEvenWhenPublic(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService(db)

	past := time.Now().Add(-time.Hour)
	g := createTestGallery(t, db, galleryOpts{privacy: model.PrivacyPublic, expiresAt: &past, photos: 2})

	_, err := svc.Access(context.Background(), g.GalleryQRToken)
	assert.ErrorIs(t, err, ErrGalleryGone)
	assert.EqualValues(t, 0, accessCount(t, db, g.GalleryID))
}

func TestAccessPrivateGalleryNeverListsPhotos(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService(db)
	ctx := context.Background()

	g := createTestGallery(t, db, galleryOpts{privacy: model.PrivacyPrivate, photos: 4})

	_, err := svc.Access(ctx, g.GalleryQRToken)
	assert.ErrorIs(t, err, ErrGalleryPrivate)

	_, err = svc.VerifyPassword(ctx, g.GalleryQRToken, "whatever")
	assert.ErrorIs(t, err, ErrGalleryPrivate)

	assert.EqualValues(t, 0, accessCount(t, db, g.GalleryID))
}

func TestPasswordGalleryChallengeAndVerify(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService(db)
	ctx := context.Background()

	g := createTestGallery(t, db, galleryOpts{privacy: model.PrivacyPassword, password: "hunter2", photos: 3})

	// landing view: challenge with zero photos, one access counted
	res, err := svc.Access(ctx, g.GalleryQRToken)
	require.NoError(t, err)
	assert.True(t, res.PasswordRequired)
	assert.Empty(t, res.Photos)
	assert.EqualValues(t, 1, accessCount(t, db, g.GalleryID))

	// wrong password: no photos, no extra access count
	_, err = svc.VerifyPassword(ctx, g.GalleryQRToken, "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.EqualValues(t, 1, accessCount(t, db, g.GalleryID))

	// right password releases the listing, still without bumping the counter
	res, err = svc.VerifyPassword(ctx, g.GalleryQRToken, "hunter2")
	require.NoError(t, err)
	assert.Len(t, res.Photos, 3)
	assert.EqualValues(t, 1, accessCount(t, db, g.GalleryID))
}

func TestVerifyPasswordExpired(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService(db)

	past := time.Now().Add(-time.Minute)
	g := createTestGallery(t, db, galleryOpts{privacy: model.PrivacyPassword, password: "hunter2", expiresAt: &past})

	_, err := svc.VerifyPassword(context.Background(), g.GalleryQRToken, "hunter2")
	assert.ErrorIs(t, err, ErrGalleryGone)
}

func TestExpiryUsesInjectedClock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService(db)

	future := time.Now().Add(time.Hour)
	g := createTestGallery(t, db, galleryOpts{privacy: model.PrivacyPublic, expiresAt: &future, photos: 1})

	_, err := svc.Access(context.Background(), g.GalleryQRToken)
	require.NoError(t, err)

	svc.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Access(context.Background(), g.GalleryQRToken)
	assert.ErrorIs(t, err, ErrGalleryGone)
}

func TestTrackDownload(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService(db)
	ctx := context.Background()

	g := createTestGallery(t, db, galleryOpts{privacy: model.PrivacyPublic, downloads: true, photos: 2})

	var photo model.GalleryPhoto
	require.NoError(t, db.First(&photo, "gallery_photo_gallery_id = ?", g.GalleryID).Error)

	require.NoError(t, svc.TrackDownload(ctx, g.GalleryQRToken, photo.GalleryPhotoID))
	require.NoError(t, svc.TrackDownload(ctx, g.GalleryQRToken, photo.GalleryPhotoID))

	var after model.GalleryPhoto
	require.NoError(t, db.First(&after, "gallery_photo_id = ?", photo.GalleryPhotoID).Error)
	assert.EqualValues(t, 2, after.GalleryPhotoDownloadCount)

	var gAfter model.Gallery
	require.NoError(t, db.First(&gAfter, "gallery_id = ?", g.GalleryID).Error)
	assert.EqualValues(t, 2, gAfter.GalleryDownloadCount)

	err := svc.TrackDownload(ctx, g.GalleryQRToken, uuid.New())
	assert.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestTrackDownloadDisabled(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService(db)

	g := createTestGallery(t, db, galleryOpts{privacy: model.PrivacyPublic, downloads: false, photos: 1})

	var photo model.GalleryPhoto
	require.NoError(t, db.First(&photo, "gallery_photo_gallery_id = ?", g.GalleryID).Error)

	err := svc.TrackDownload(context.Background(), g.GalleryQRToken, photo.GalleryPhotoID)
	assert.ErrorIs(t, err, ErrDownloadsDisabled)
}

func TestTrackPhotoView(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService(db)

	g := createTestGallery(t, db, galleryOpts{privacy: model.PrivacyPublic, photos: 1})

	var photo model.GalleryPhoto
	require.NoError(t, db.First(&photo, "gallery_photo_gallery_id = ?", g.GalleryID).Error)

	require.NoError(t, svc.TrackPhotoView(context.Background(), g.GalleryQRToken, photo.GalleryPhotoID))

	var after model.GalleryPhoto
	require.NoError(t, db.First(&after, "gallery_photo_id = ?", photo.GalleryPhotoID).Error)
	assert.EqualValues(t, 1, after.GalleryPhotoViewCount)
}
