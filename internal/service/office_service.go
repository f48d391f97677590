package service

import (
	"context"
	"fmt"

	"github.com/deskhub/offices-api/internal/domain"
	"github.com/deskhub/offices-api/internal/notify"
	"github.com/deskhub/offices-api/internal/repo/postgres"
	"github.com/deskhub/offices-api/pkg/events"
	"github.com/deskhub/offices-api/pkg/logger"
)

type OfficeService interface {
	List(ctx context.Context, f domain.OfficeFilter) ([]domain.Office, int64, error)
	Get(ctx context.Context, id int64) (*domain.Office, error)
	Create(ctx context.Context, ownerID int64, in *domain.OfficeCreate) (*domain.Office, error)
	Update(ctx context.Context, callerID, id int64, patch domain.OfficePatch) (*domain.Office, error)
}

type officeService struct {
	offices  postgres.OfficeRepository
	tags     postgres.TagRepository
	notifier notify.Notifier
	bus      events.Publisher
}

func NewOfficeService(
	offices postgres.OfficeRepository,
	tags postgres.TagRepository,
	notifier notify.Notifier,
	bus events.Publisher,
) OfficeService {
	return &officeService{
		offices:  offices,
		tags:     tags,
		notifier: notifier,
		bus:      bus,
	}
}

func (s *officeService) List(ctx context.Context, f domain.OfficeFilter) ([]domain.Office, int64, error) {
	return s.offices.List(ctx, f)
}

func (s *officeService) Get(ctx context.Context, id int64) (*domain.Office, error) {
	office, err := s.offices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if office == nil {
		return nil, domain.ErrNotFound
	}
	return office, nil
}

func (s *officeService) Create(ctx context.Context, ownerID int64, in *domain.OfficeCreate) (*domain.Office, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkTagIDs(ctx, in.Tags); err != nil {
		return nil, err
	}

	// The repository forces approval_status=pending and user_id=ownerID; a
	// new office is never client-approved or client-attributed.
	office, err := s.offices.Create(ctx, ownerID, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create office: %w", err)
	}

	s.notifier.OfficePendingApproval(ctx, office)

	event := events.OfficeCreatedEvent{
		OfficeID:  office.ID,
		OwnerID:   office.UserID,
		Title:     office.Title,
		CreatedAt: office.CreatedAt,
	}
	if err := s.bus.Publish(ctx, events.OfficeCreated, event); err != nil {
		logger.ErrorContext(ctx, "failed to publish office created event", "error", err, "office_id", office.ID)
	}

	return office, nil
}

func (s *officeService) Update(ctx context.Context, callerID, id int64, patch domain.OfficePatch) (*domain.Office, error) {
	existing, err := s.offices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get office: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if !existing.IsOwner(callerID) {
		return nil, domain.ErrForbidden
	}

	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Tags != nil {
		if err := s.checkTagIDs(ctx, *patch.Tags); err != nil {
			return nil, err
		}
	}

	changes := patch.DetectChanges(existing)
	resetApproval := domain.ResetsApproval(changes)

	updated, err := s.offices.Update(ctx, id, patch, resetApproval)
	if err != nil {
		return nil, fmt.Errorf("failed to update office: %w", err)
	}

	if resetApproval {
		s.notifier.OfficePendingApproval(ctx, updated)
	}

	if len(changes) > 0 {
		event := events.OfficeUpdatedEvent{
			OfficeID:  updated.ID,
			OwnerID:   updated.UserID,
			Changes:   changes,
			UpdatedAt: updated.UpdatedAt,
		}
		if err := s.bus.Publish(ctx, events.OfficeUpdated, event); err != nil {
			logger.ErrorContext(ctx, "failed to publish office updated event", "error", err, "office_id", updated.ID)
		}
	}

	return updated, nil
}

func (s *officeService) checkTagIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.tags.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to look up tags: %w", err)
	}
	known := make(map[int64]bool, len(found))
	for _, t := range found {
		known[t.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: unknown tag %d", domain.ErrValidation, id)
		}
	}
	return nil
}
