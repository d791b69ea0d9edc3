package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-middleware"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-storage"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

const maxConcurrentUploads = 4

// ImageUpload is one evidence image from the request.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type MaintenanceService interface {
	// Submit uploads the images and records one case holding the URLs of
	// the uploads that succeeded, in input order.
	Submit(ctx context.Context, sess middleware.Session, tenancyID uuid.UUID, title, description string, images []ImageUpload) (*models.MaintenanceCase, error)
	// ListMine lists cases of the tenancy; status is "all" or a case status.
	ListMine(ctx context.Context, sess middleware.Session, tenancyID uuid.UUID, status string) ([]*models.MaintenanceCase, error)
}

type maintenanceService struct {
	cases     repositories.MaintenanceRepository
	tenancies TenancyService
	storage   storage.ObjectStorage
	signTTL   time.Duration
	now       func() time.Time
}

// NewMaintenanceService stores public image URLs when signTTL is zero. A
// positive signTTL means the bucket is private: cases keep object keys and
// every response carries presigned URLs valid for signTTL.
func NewMaintenanceService(
	cases repositories.MaintenanceRepository,
	tenancies TenancyService,
	store storage.ObjectStorage,
	signTTL time.Duration,
) MaintenanceService {
	return &maintenanceService{cases: cases, tenancies: tenancies, storage: store, signTTL: signTTL, now: time.Now}
}

func (s *maintenanceService) Submit(
	ctx context.Context,
	sess middleware.Session,
	tenancyID uuid.UUID,
	title, description string,
	images []ImageUpload,
) (*models.MaintenanceCase, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if description == "" {
		return nil, invalid("description", "is required")
	}

	if _, err := s.tenancies.Owned(ctx, sess, tenancyID); err != nil {
		return nil, err
	}

	urls := s.uploadAll(ctx, tenancyID, images)

	c := &models.MaintenanceCase{
		ID:          uuid.New(),
		TenancyID:   tenancyID,
		UserID:      sess.UserID,
		Title:       title,
		Description: description,
		Images:      urls,
		Status:      models.MaintenancePending,
	}
	if err := s.cases.Create(ctx, c); err != nil {
		return nil, err
	}
	utils.Logger.WithField("case_id", c.ID).
		Infof("maintenance case created with %d/%d images", len(urls), len(images))
	if err := s.presign(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// presign swaps stored object keys for signed URLs. No-op for public buckets.
func (s *maintenanceService) presign(ctx context.Context, cases ...*models.MaintenanceCase) error {
	if s.signTTL <= 0 {
		return nil
	}
	for _, c := range cases {
		signed := make([]string, len(c.Images))
		for i, key := range c.Images {
			u, err := s.storage.SignedURL(ctx, key, s.signTTL)
			if err != nil {
				return fmt.Errorf("sign image %s: %w", key, err)
			}
			signed[i] = u
		}
		c.Images = signed
	}
	return nil
}

// uploadAll never fails; failed uploads are logged and dropped.
func (s *maintenanceService) uploadAll(ctx context.Context, tenancyID uuid.UUID, images []ImageUpload) []string {
	results := make([]string, len(images))

	var g errgroup.Group
	g.SetLimit(maxConcurrentUploads)
	for i, img := range images {
		g.Go(func() error {
			key := storage.EvidenceKey(tenancyID.String(), img.FileName, s.now())
			url, err := s.storage.Upload(ctx, key, img.Body, img.Size, img.ContentType)
			if err != nil {
				utils.Logger.WithError(err).WithField("file", img.FileName).Warn("evidence upload failed; skipping")
				return nil
			}
			if s.signTTL > 0 {
				results[i] = key
			} else {
				results[i] = url
			}
			return nil
		})
	}
	_ = g.Wait()

	urls := make([]string, 0, len(results))
	for _, u := range results {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func (s *maintenanceService) ListMine(
	ctx context.Context,
	sess middleware.Session,
	tenancyID uuid.UUID,
	status string,
) ([]*models.MaintenanceCase, error) {
	var filter *models.MaintenanceStatus
	if status != "" && status != listAll {
		st := models.MaintenanceStatus(status)
		if !st.Valid() {
			return nil, invalid("status", "must be all, pending, in_progress, completed or cancelled")
		}
		filter = &st
	}
	if _, err := s.tenancies.Owned(ctx, sess, tenancyID); err != nil {
		return nil, err
	}
	cases, err := s.cases.ListByTenancy(ctx, tenancyID, filter)
	if err != nil {
		return nil, err
	}
	if err := s.presign(ctx, cases...); err != nil {
		return nil, err
	}
	return cases, nil
}
