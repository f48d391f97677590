package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deskhub/offices-api/internal/domain"
)

type mockOfficeRepo struct {
	offices map[int64]*domain.Office

	createOwnerID int64
	createIn      *domain.OfficeCreate
	createErr     error

	updateID    int64
	updatePatch *domain.OfficePatch
	updateReset *bool
	updateErr   error
}

func (m *mockOfficeRepo) List(ctx context.Context, f domain.OfficeFilter) ([]domain.Office, int64, error) {
	return nil, 0, nil
}

func (m *mockOfficeRepo) GetByID(ctx context.Context, id int64) (*domain.Office, error) {
	return m.offices[id], nil
}

func (m *mockOfficeRepo) Create(ctx context.Context, ownerID int64, in *domain.OfficeCreate) (*domain.Office, error) {
	m.createOwnerID = ownerID
	m.createIn = in
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &domain.Office{
		ID:             99,
		UserID:         ownerID,
		Title:          in.Title,
		ApprovalStatus: domain.ApprovalPending,
	}, nil
}

func (m *mockOfficeRepo) Update(ctx context.Context, id int64, patch domain.OfficePatch, resetApproval bool) (*domain.Office, error) {
	m.updateID = id
	m.updatePatch = &patch
	m.updateReset = &resetApproval
	if m.updateErr != nil {
		return nil, m.updateErr
	}

	updated := *m.offices[id]
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Hidden != nil {
		updated.Hidden = *patch.Hidden
	}
	if resetApproval {
		updated.ApprovalStatus = domain.ApprovalPending
	}
	return &updated, nil
}

type mockTagRepo struct {
	tags []domain.Tag
	err  error
}

func (m *mockTagRepo) List(ctx context.Context) ([]domain.Tag, error) {
	return m.tags, m.err
}

func (m *mockTagRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	if m.err != nil {
		return nil, m.err
	}
	var found []domain.Tag
	for _, t := range m.tags {
		for _, id := range ids {
			if t.ID == id {
				found = append(found, t)
			}
		}
	}
	return found, nil
}

type mockNotifier struct {
	notified []*domain.Office
}

func (m *mockNotifier) OfficePendingApproval(ctx context.Context, office *domain.Office) {
	m.notified = append(m.notified, office)
}

type mockBus struct {
	subjects []string
	err      error
}

func (m *mockBus) Publish(ctx context.Context, subject string, data interface{}) error {
	m.subjects = append(m.subjects, subject)
	return m.err
}

func (m *mockBus) Close() error { return nil }

func newTestService(offices *mockOfficeRepo, tags *mockTagRepo) (OfficeService, *mockNotifier, *mockBus) {
	notifier := &mockNotifier{}
	bus := &mockBus{}
	return NewOfficeService(offices, tags, notifier, bus), notifier, bus
}

func validCreate() *domain.OfficeCreate {
	return &domain.OfficeCreate{
		Title:        "Downtown office",
		Description:  "Bright corner office",
		Lat:          38.72,
		Lng:          -9.16,
		AddressLine1: "Rua Augusta 1",
		PricePerDay:  10_000,
		Tags:         []int64{1, 2},
	}
}

func TestCreate_NotifiesAndPublishes(t *testing.T) {
	offices := &mockOfficeRepo{}
	tags := &mockTagRepo{tags: []domain.Tag{{ID: 1, Name: "wifi"}, {ID: 2, Name: "parking"}}}
	svc, notifier, bus := newTestService(offices, tags)

	office, err := svc.Create(context.Background(), 7, validCreate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if offices.createOwnerID != 7 {
		t.Fatalf("expected owner id 7 passed to repo, got %d", offices.createOwnerID)
	}
	if office.ApprovalStatus != domain.ApprovalPending {
		t.Fatalf("expected new office to be pending, got %q", office.ApprovalStatus)
	}
	if len(notifier.notified) != 1 || notifier.notified[0].ID != office.ID {
		t.Fatalf("expected one pending approval notification for the new office")
	}
	if len(bus.subjects) != 1 || bus.subjects[0] != "office.created" {
		t.Fatalf("expected office.created to be published, got %v", bus.subjects)
	}
}

func TestCreate_ValidationError(t *testing.T) {
	offices := &mockOfficeRepo{}
	svc, notifier, _ := newTestService(offices, &mockTagRepo{})

	in := validCreate()
	in.Title = "   "
	_, err := svc.Create(context.Background(), 7, in)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if offices.createIn != nil {
		t.Fatal("repository must not be called on invalid input")
	}
	if len(notifier.notified) != 0 {
		t.Fatal("no notification should go out for a rejected create")
	}
}

func TestCreate_UnknownTag(t *testing.T) {
	offices := &mockOfficeRepo{}
	tags := &mockTagRepo{tags: []domain.Tag{{ID: 1, Name: "wifi"}}}
	svc, _, _ := newTestService(offices, tags)

	in := validCreate()
	in.Tags = []int64{1, 999}
	_, err := svc.Create(context.Background(), 7, in)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown tag, got %v", err)
	}
	if offices.createIn != nil {
		t.Fatal("repository must not be called with unknown tags")
	}
}

func TestCreate_PublishFailureDoesNotFail(t *testing.T) {
	offices := &mockOfficeRepo{}
	tags := &mockTagRepo{tags: []domain.Tag{{ID: 1, Name: "wifi"}, {ID: 2, Name: "parking"}}}
	notifier := &mockNotifier{}
	bus := &mockBus{err: errors.New("nats unreachable")}
	svc := NewOfficeService(offices, tags, notifier, bus)

	office, err := svc.Create(context.Background(), 7, validCreate())
	if err != nil {
		t.Fatalf("create must succeed despite publish failure, got %v", err)
	}
	if office == nil {
		t.Fatal("expected the created office back")
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService(&mockOfficeRepo{}, &mockTagRepo{})

	_, err := svc.Get(context.Background(), 123)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func existingOffice() *domain.Office {
	return &domain.Office{
		ID:             5,
		UserID:         7,
		Title:          "Loft",
		Description:    "Quiet",
		AddressLine1:   "Main St",
		Lat:            38.72,
		Lng:            -9.16,
		PricePerDay:    10_000,
		ApprovalStatus: domain.ApprovalApproved,
		Tags:           []domain.Tag{{ID: 1, Name: "wifi"}},
	}
}

func TestUpdate_NonOwnerForbidden(t *testing.T) {
	offices := &mockOfficeRepo{offices: map[int64]*domain.Office{5: existingOffice()}}
	svc, _, _ := newTestService(offices, &mockTagRepo{})

	title := "Hijacked"
	_, err := svc.Update(context.Background(), 999, 5, domain.OfficePatch{Title: &title})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if offices.updatePatch != nil {
		t.Fatal("repository must not be called for a non-owner")
	}
}

func TestUpdate_MissingOffice(t *testing.T) {
	svc, _, _ := newTestService(&mockOfficeRepo{}, &mockTagRepo{})

	_, err := svc.Update(context.Background(), 7, 404, domain.OfficePatch{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_ContentChangeResetsApproval(t *testing.T) {
	offices := &mockOfficeRepo{offices: map[int64]*domain.Office{5: existingOffice()}}
	svc, notifier, bus := newTestService(offices, &mockTagRepo{})

	title := "Penthouse"
	updated, err := svc.Update(context.Background(), 7, 5, domain.OfficePatch{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if offices.updateReset == nil || !*offices.updateReset {
		t.Fatal("expected the repo to be asked to reset the approval status")
	}
	if updated.ApprovalStatus != domain.ApprovalPending {
		t.Fatalf("expected pending after content change, got %q", updated.ApprovalStatus)
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("expected one pending approval notification, got %d", len(notifier.notified))
	}
	if len(bus.subjects) != 1 || bus.subjects[0] != "office.updated" {
		t.Fatalf("expected office.updated to be published, got %v", bus.subjects)
	}
}

func TestUpdate_HiddenOnlyKeepsApproval(t *testing.T) {
	offices := &mockOfficeRepo{offices: map[int64]*domain.Office{5: existingOffice()}}
	svc, notifier, bus := newTestService(offices, &mockTagRepo{})

	hidden := true
	updated, err := svc.Update(context.Background(), 7, 5, domain.OfficePatch{Hidden: &hidden})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if offices.updateReset == nil || *offices.updateReset {
		t.Fatal("toggling hidden must not reset the approval status")
	}
	if updated.ApprovalStatus != domain.ApprovalApproved {
		t.Fatalf("expected office to stay approved, got %q", updated.ApprovalStatus)
	}
	if len(notifier.notified) != 0 {
		t.Fatal("no notification should go out for a hidden-only update")
	}
	if len(bus.subjects) != 1 || bus.subjects[0] != "office.updated" {
		t.Fatalf("expected office.updated to still be published, got %v", bus.subjects)
	}
}

func TestUpdate_NoopPublishesNothing(t *testing.T) {
	offices := &mockOfficeRepo{offices: map[int64]*domain.Office{5: existingOffice()}}
	svc, notifier, bus := newTestService(offices, &mockTagRepo{})

	title := "Loft" // unchanged
	_, err := svc.Update(context.Background(), 7, 5, domain.OfficePatch{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.notified) != 0 {
		t.Fatal("no-op update must not notify")
	}
	if len(bus.subjects) != 0 {
		t.Fatalf("no-op update must not publish, got %v", bus.subjects)
	}
}

func TestUpdate_RepeatedTagIDResetsApproval(t *testing.T) {
	office := existingOffice()
	office.Tags = []domain.Tag{{ID: 1, Name: "wifi"}, {ID: 2, Name: "parking"}}
	offices := &mockOfficeRepo{offices: map[int64]*domain.Office{5: office}}
	tags := &mockTagRepo{tags: []domain.Tag{{ID: 1, Name: "wifi"}, {ID: 2, Name: "parking"}}}
	svc, notifier, _ := newTestService(offices, tags)

	// The office has tags [1 2]; sending [1 1] drops tag 2 and must count
	// as a content change like any other tag replacement.
	ids := []int64{1, 1}
	_, err := svc.Update(context.Background(), 7, 5, domain.OfficePatch{Tags: &ids})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if offices.updateReset == nil || !*offices.updateReset {
		t.Fatal("a tag change hidden behind a repeated id must still reset approval")
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("expected a pending approval notification, got %d", len(notifier.notified))
	}
	if got := *offices.updatePatch.Tags; len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected deduped tag ids [1] passed to the repo, got %v", got)
	}
}

func TestUpdate_UnknownTag(t *testing.T) {
	offices := &mockOfficeRepo{offices: map[int64]*domain.Office{5: existingOffice()}}
	tags := &mockTagRepo{tags: []domain.Tag{{ID: 1, Name: "wifi"}}}
	svc, _, _ := newTestService(offices, tags)

	ids := []int64{1, 999}
	_, err := svc.Update(context.Background(), 7, 5, domain.OfficePatch{Tags: &ids})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown tag, got %v", err)
	}
	if offices.updatePatch != nil {
		t.Fatal("repository must not be called with unknown tags")
	}
}
