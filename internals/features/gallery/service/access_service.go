package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"shutterhub_backend/internals/features/gallery/model"
	"shutterhub_backend/internals/observability/logger"
	"shutterhub_backend/internals/observability/metrics"
)

var (
	ErrGalleryNotFound   = errors.New("gallery not found")
	ErrGalleryGone       = errors.New("gallery expired")
	ErrGalleryPrivate    = errors.New("gallery is private")
	ErrWrongPassword     = errors.New("wrong gallery password")
	ErrDownloadsDisabled = errors.New("downloads are disabled for this gallery")
	ErrPhotoNotFound     = errors.New("photo not found")
)

// AccessService is the public gate in front of galleries: QR token lookup,
// privacy policy, password verification and view/download tracking.
type AccessService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db, Now: time.Now}
}

// AccessResult is what a viewer gets for a token lookup.
type AccessResult struct {
	Gallery          *model.Gallery
	Photos           []model.GalleryPhoto
	PasswordRequired bool
}

// Access resolves a QR token. Order of policy checks: existence → expiry →
// private → password → public. Every successful metadata fetch (the password
// challenge included) counts as one access.
func (s *AccessService) Access(ctx context.Context, token string) (*AccessResult, error) {
	g, err := s.findByToken(ctx, token)
	if err != nil {
		metrics.IncGalleryAccess("not_found")
		return nil, err
	}
	if g.IsExpired(s.Now()) {
		metrics.IncGalleryAccess("gone")
		return nil, ErrGalleryGone
	}
	if g.GalleryPrivacy == model.PrivacyPrivate {
		metrics.IncGalleryAccess("private")
		return nil, ErrGalleryPrivate
	}

	s.bumpAccessCount(ctx, g)

	if g.GalleryPrivacy == model.PrivacyPassword {
		metrics.IncGalleryAccess("challenge")
		return &AccessResult{Gallery: g, PasswordRequired: true}, nil
	}

	photos, err := s.listPhotos(ctx, g.GalleryID)
	if err != nil {
		return nil, err
	}
	metrics.IncGalleryAccess("ok")
	return &AccessResult{Gallery: g, Photos: photos}, nil
}

// VerifyPassword releases the photo listing after a matching password. It
// never increments the access counter; the landing view already did.
func (s *AccessService) VerifyPassword(ctx context.Context, token, password string) (*AccessResult, error) {
	g, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if g.IsExpired(s.Now()) {
		return nil, ErrGalleryGone
	}
	if g.GalleryPrivacy == model.PrivacyPrivate {
		return nil, ErrGalleryPrivate
	}
	if g.GalleryPrivacy == model.PrivacyPassword {
		if bcrypt.CompareHashAndPassword([]byte(g.GalleryPasswordHash), []byte(password)) != nil {
			return nil, ErrWrongPassword
		}
	}

	photos, err := s.listPhotos(ctx, g.GalleryID)
	if err != nil {
		return nil, err
	}
	return &AccessResult{Gallery: g, Photos: photos}, nil
}

// TrackDownload bumps the per-photo and per-gallery download counters in one
// transaction. Policy failures (disabled downloads, unknown photo) are real
// errors; plain counter failures are for the caller to swallow.
func (s *AccessService) TrackDownload(ctx context.Context, token string, photoID uuid.UUID) error {
	g, err := s.findByToken(ctx, token)
	if err != nil {
		return err
	}
	if g.IsExpired(s.Now()) {
		return ErrGalleryGone
	}
	if g.GalleryPrivacy == model.PrivacyPrivate {
		return ErrGalleryPrivate
	}
	if !g.GalleryDownloadEnabled {
		return ErrDownloadsDisabled
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.GalleryPhoto{}).
			Where("gallery_photo_id = ? AND gallery_photo_gallery_id = ?", photoID, g.GalleryID).
			UpdateColumn("gallery_photo_download_count", gorm.Expr("gallery_photo_download_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPhotoNotFound
		}
		return tx.Model(&model.Gallery{}).
			Where("gallery_id = ?", g.GalleryID).
			UpdateColumn("gallery_download_count", gorm.Expr("gallery_download_count + 1")).Error
	})
}

// TrackPhotoView bumps a single photo's view counter. Fire-and-forget from
// the caller's perspective.
func (s *AccessService) TrackPhotoView(ctx context.Context, token string, photoID uuid.UUID) error {
	g, err := s.findByToken(ctx, token)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&model.GalleryPhoto{}).
		Where("gallery_photo_id = ? AND gallery_photo_gallery_id = ?", photoID, g.GalleryID).
		UpdateColumn("gallery_photo_view_count", gorm.Expr("gallery_photo_view_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPhotoNotFound
	}
	return nil
}

func (s *AccessService) findByToken(ctx context.Context, token string) (*model.Gallery, error) {
	var g model.Gallery
	if err := s.DB.WithContext(ctx).First(&g, "gallery_qr_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (s *AccessService) listPhotos(ctx context.Context, galleryID uuid.UUID) ([]model.GalleryPhoto, error) {
	var photos []model.GalleryPhoto
	err := s.DB.WithContext(ctx).
		Where("gallery_photo_gallery_id = ?", galleryID).
		Order("gallery_photo_display_order ASC, created_at ASC").
		Find(&photos).Error
	return photos, err
}

// bumpAccessCount is best-effort: a failed counter update must not block the
// view, so the error is only logged.
func (s *AccessService) bumpAccessCount(ctx context.Context, g *model.Gallery) {
	err := s.DB.WithContext(ctx).Model(&model.Gallery{}).
		Where("gallery_id = ?", g.GalleryID).
		UpdateColumn("gallery_access_count", gorm.Expr("gallery_access_count + 1")).Error
	if err != nil {
		logger.Log.Warn().Err(err).Str("gallery_id", g.GalleryID.String()).Msg("access counter update failed")
		return
	}
	g.GalleryAccessCount++
}
