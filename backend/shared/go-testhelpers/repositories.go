package testhelpers

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-models"
	"github.com/pomy-dev/ebh-repo/backend/shared/go-repositories"
)

// ------------------------------------------------------------------
// Properties
// ------------------------------------------------------------------

type memProperties struct{ s *MemStore }

func (s *MemStore) PropertyRepo() repositories.PropertyRepository { return memProperties{s} }

func (r memProperties) Create(ctx context.Context, p *models.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Writes++
	r.s.properties[p.ID] = *p
	return nil
}

func (r memProperties) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.properties[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memProperties) ListAll(ctx context.Context) ([]*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Property
	for _, p := range r.s.properties {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ------------------------------------------------------------------
// Units
// ------------------------------------------------------------------

type memUnits struct{ s *MemStore }

func (s *MemStore) UnitRepo() repositories.UnitRepository { return memUnits{s} }

func (r memUnits) Create(ctx context.Context, u *models.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Writes++
	if u.OccupancyStatus == "" {
		u.OccupancyStatus = models.OccupancyAvailable
	}
	u.RowVersion = 1
	r.s.units[u.ID] = *u
	return nil
}

func (r memUnits) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUnits) GetWithProperty(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, nil
	}
	p := r.s.properties[u.PropertyID]
	u.Property = &p
	return &u, nil
}

func (r memUnits) List(ctx context.Context, status *models.OccupancyStatus) ([]*models.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Faults.ListUnits != nil {
		return nil, r.s.Faults.ListUnits
	}
	var out []*models.Unit
	for _, u := range r.s.units {
		if status != nil && u.OccupancyStatus != *status {
			continue
		}
		u := u
		p := r.s.properties[u.PropertyID]
		u.Property = &p
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitLabel < out[j].UnitLabel })
	return out, nil
}

func (r memUnits) UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.units[u.ID]
	if !ok || cur.RowVersion != expected {
		return tag(0), nil
	}
	r.s.Writes++
	next := *u
	next.RowVersion = expected + 1
	next.Property = nil
	r.s.units[u.ID] = next
	return tag(1), nil
}

func (r memUnits) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	return repositories.WithRetry[*models.Unit](ctx, repositories.DefaultMaxRetries, id.String(),
		func(ctx context.Context, sid string) (*models.Unit, error) {
			return r.GetByID(ctx, uuid.MustParse(sid))
		}, r.UpdateIfVersion, mutate)
}

func (r memUnits) ReconcileOccupancy(ctx context.Context, asOf time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, t := range r.s.tenancies {
		if t.Ended(asOf) {
			continue
		}
		u, ok := r.s.units[t.ApartmentID]
		if !ok || u.OccupancyStatus != models.OccupancyAvailable {
			continue
		}
		u.OccupancyStatus = models.OccupancyOccupied
		u.RowVersion++
		r.s.units[u.ID] = u
		r.s.Writes++
		n++
	}
	return n, nil
}

// ------------------------------------------------------------------
// Applications
// ------------------------------------------------------------------

type memApplications struct{ s *MemStore }

func (s *MemStore) ApplicationRepo() repositories.ApplicationRepository { return memApplications{s} }

func (r memApplications) Create(ctx context.Context, a *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Writes++
	if a.ApprovalStatus == "" {
		a.ApprovalStatus = models.ApprovalPending
	}
	a.RowVersion = 1
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.s.applications[a.ID] = *a
	return nil
}

func (r memApplications) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memApplications) ListByApplicant(ctx context.Context, userID uuid.UUID) ([]*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Application
	for _, a := range r.s.applications {
		if a.ApplicantUserID != userID {
			continue
		}
		a := a
		if u, ok := r.s.units[a.ApartmentID]; ok {
			p := r.s.properties[u.PropertyID]
			u.Property = &p
			a.Apartment = &u
		}
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memApplications) ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Application
	for _, a := range r.s.applications {
		if a.ApprovalStatus == status {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r memApplications) UpdateIfVersion(ctx context.Context, a *models.Application, expected int64) (pgconn.CommandTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.applications[a.ID]
	if !ok || cur.RowVersion != expected {
		return tag(0), nil
	}
	r.s.Writes++
	next := *a
	next.RowVersion = expected + 1
	next.Apartment = nil
	r.s.applications[a.ID] = next
	return tag(1), nil
}

func (r memApplications) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Application) error) error {
	return repositories.WithRetry[*models.Application](ctx, repositories.DefaultMaxRetries, id.String(),
		func(ctx context.Context, sid string) (*models.Application, error) {
			return r.GetByID(ctx, uuid.MustParse(sid))
		}, r.UpdateIfVersion, mutate)
}

func (r memApplications) DeleteForApplicant(ctx context.Context, id, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.applications[id]; ok && a.ApplicantUserID == userID {
		r.s.Writes++
		delete(r.s.applications, id)
	}
	return nil
}

// ------------------------------------------------------------------
// Tenancies
// ------------------------------------------------------------------

type memTenancies struct{ s *MemStore }

func (s *MemStore) TenancyRepo() repositories.TenancyRepository { return memTenancies{s} }

func (r memTenancies) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tenancies[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r memTenancies) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Tenancy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Tenancy
	for _, t := range r.s.tenancies {
		if t.UserID == userID {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaseStartDate.After(out[j].LeaseStartDate) })
	return out, nil
}

func (r memTenancies) UpdateIfVersion(ctx context.Context, t *models.Tenancy, expected int64) (pgconn.CommandTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.tenancies[t.ID]
	if !ok || cur.RowVersion != expected {
		return tag(0), nil
	}
	r.s.Writes++
	next := *t
	next.RowVersion = expected + 1
	r.s.tenancies[t.ID] = next
	return tag(1), nil
}

func (r memTenancies) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Tenancy) error) error {
	return repositories.WithRetry[*models.Tenancy](ctx, repositories.DefaultMaxRetries, id.String(),
		func(ctx context.Context, sid string) (*models.Tenancy, error) {
			return r.GetByID(ctx, uuid.MustParse(sid))
		}, r.UpdateIfVersion, mutate)
}

// ------------------------------------------------------------------
// Users
// ------------------------------------------------------------------

type memUsers struct{ s *MemStore }

func (s *MemStore) UserRepo() repositories.UserRepository { return memUsers{s} }

func (r memUsers) Create(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	r.s.Writes++
	u.RowVersion = 1
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.users[u.ID]
	if !ok || cur.RowVersion != expected {
		return tag(0), nil
	}
	for id, other := range r.s.users {
		if id != u.ID && other.Email == u.Email {
			return tag(0), &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	r.s.Writes++
	next := *u
	next.TenancyID = cur.TenancyID
	next.RowVersion = expected + 1
	r.s.users[u.ID] = next
	return tag(1), nil
}

func (r memUsers) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return repositories.WithRetry[*models.User](ctx, repositories.DefaultMaxRetries, id.String(),
		func(ctx context.Context, sid string) (*models.User, error) {
			return r.GetByID(ctx, uuid.MustParse(sid))
		}, r.UpdateIfVersion, mutate)
}

// ------------------------------------------------------------------
// Maintenance cases
// ------------------------------------------------------------------

type memMaintenance struct{ s *MemStore }

func (s *MemStore) MaintenanceRepo() repositories.MaintenanceRepository { return memMaintenance{s} }

func (r memMaintenance) Create(ctx context.Context, c *models.MaintenanceCase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Faults.CreateCase != nil {
		return r.s.Faults.CreateCase
	}
	r.s.Writes++
	if c.Status == "" {
		c.Status = models.MaintenancePending
	}
	c.CreatedAt = time.Now()
	r.s.cases = append(r.s.cases, *c)
	return nil
}

func (r memMaintenance) ListByTenancy(ctx context.Context, tenancyID uuid.UUID, status *models.MaintenanceStatus) ([]*models.MaintenanceCase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.MaintenanceCase
	for i := len(r.s.cases) - 1; i >= 0; i-- {
		c := r.s.cases[i]
		if c.TenancyID != tenancyID || (status != nil && c.Status != *status) {
			continue
		}
		out = append(out, &c)
	}
	return out, nil
}

// ------------------------------------------------------------------
// Payments
// ------------------------------------------------------------------

type memPayments struct{ s *MemStore }

func (s *MemStore) PaymentRepo() repositories.PaymentRepository { return memPayments{s} }

func (r memPayments) Create(ctx context.Context, p *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Faults.CreatePayment != nil {
		return r.s.Faults.CreatePayment
	}
	if p.Method == models.PaymentMethodCard && p.Reference != "" {
		for _, existing := range r.s.payments {
			if existing.Method == models.PaymentMethodCard && existing.Reference == p.Reference {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_payments_card_reference"}
			}
		}
	}
	r.s.Writes++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.s.payments = append(r.s.payments, *p)
	return nil
}

func (r memPayments) ListByTenancy(ctx context.Context, tenancyID uuid.UUID, status *models.PaymentStatus) ([]*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Payment
	for i := len(r.s.payments) - 1; i >= 0; i-- {
		p := r.s.payments[i]
		if p.TenancyID != tenancyID || (status != nil && p.Status != *status) {
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}

func (r memPayments) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i := range r.s.payments {
		p := &r.s.payments[i]
		if p.Status == models.PaymentPending && p.DueDate.Before(asOf) {
			p.Status = models.PaymentOverdue
			r.s.Writes++
			n++
		}
	}
	return n, nil
}
