package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

var ErrTenantNotFound = errors.New("tenant not found")

// TenantRepository reads tenant records from both generations of the
// schema. Legacy clients and workspaces live in separate tables; callers
// get the tagged union and the adapter decides how to flatten it. The guard
// layer never writes through this repository.
type TenantRepository struct {
	db *sqlx.DB
}

func NewTenantRepository(db *sqlx.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

type clientRow struct {
	ID                string         `db:"id"`
	BusinessName      string         `db:"business_name"`
	ContactEmail      string         `db:"contact_email"`
	PhoneNumber       string         `db:"phone_number"`
	Niche             string         `db:"niche"`
	Slug              string         `db:"slug"`
	BusinessHours     string         `db:"business_hours"`
	Timezone          string         `db:"timezone"`
	AfterHoursMessage string         `db:"after_hours_message"`
	AdminNumbers      pq.StringArray `db:"admin_numbers"`
	subscriptionRow
	CreatedAt sql.NullTime `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

type workspaceRow struct {
	ID                string         `db:"id"`
	Name              string         `db:"name"`
	ContactEmail      string         `db:"contact_email"`
	BusinessHours     string         `db:"business_hours"`
	Timezone          string         `db:"timezone"`
	AfterHoursMessage string         `db:"after_hours_message"`
	AdminNumbers      pq.StringArray `db:"admin_numbers"`
	PhoneNumbers      pq.StringArray `db:"phone_numbers"`
	subscriptionRow
	CreatedAt sql.NullTime `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

type subscriptionRow struct {
	Status                string         `db:"subscription_status"`
	Tier                  string         `db:"subscription_tier"`
	TrialStartDate        sql.NullTime   `db:"trial_start_date"`
	TrialEndDate          sql.NullTime   `db:"trial_end_date"`
	SubscriptionStartDate sql.NullTime   `db:"subscription_start_date"`
	SubscriptionEndDate   sql.NullTime   `db:"subscription_end_date"`
	LastPaymentDate       sql.NullTime   `db:"last_payment_date"`
	PaymentMethod         sql.NullString `db:"payment_method"`
}

const clientColumns = `
        id, business_name, contact_email, phone_number, niche, slug,
        business_hours, timezone, after_hours_message, admin_numbers,
        subscription_status, subscription_tier,
        trial_start_date, trial_end_date,
        subscription_start_date, subscription_end_date,
        last_payment_date, payment_method,
        created_at, updated_at`

const workspaceColumns = `
        w.id, w.name, w.contact_email,
        w.business_hours, w.timezone, w.after_hours_message, w.admin_numbers,
        w.subscription_status, w.subscription_tier,
        w.trial_start_date, w.trial_end_date,
        w.subscription_start_date, w.subscription_end_date,
        w.last_payment_date, w.payment_method,
        w.created_at, w.updated_at,
        coalesce(
            (SELECT array_agg(p.phone_number ORDER BY p.position)
             FROM workspace_phone_numbers p WHERE p.workspace_id = w.id),
            '{}'
        ) AS phone_numbers`

func (r *TenantRepository) GetClient(ctx context.Context, id string) (*core.Client, error) {
	var row clientRow
	query := `SELECT` + clientColumns + ` FROM clients WHERE id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get client %s: %w", id, err)
	}

	return row.toClient(), nil
}

func (r *TenantRepository) GetWorkspace(ctx context.Context, id string) (*core.Workspace, error) {
	var row workspaceRow
	query := `SELECT` + workspaceColumns + ` FROM workspaces w WHERE w.id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get workspace %s: %w", id, err)
	}

	return row.toWorkspace(), nil
}

// GetByID tries the legacy table first, then workspaces.
func (r *TenantRepository) GetByID(ctx context.Context, id string) (core.TenantRecord, error) {
	client, err := r.GetClient(ctx, id)
	if err == nil {
		return core.ClientRecord(client), nil
	}
	if !errors.Is(err, ErrTenantNotFound) {
		return core.TenantRecord{}, err
	}

	workspace, err := r.GetWorkspace(ctx, id)
	if err != nil {
		return core.TenantRecord{}, err
	}
	return core.WorkspaceRecord(workspace), nil
}

// GetByPhoneNumber resolves the tenant owning an inbox number. Inbox
// numbers are unique across both tables.
func (r *TenantRepository) GetByPhoneNumber(ctx context.Context, number string) (core.TenantRecord, error) {
	var row clientRow
	query := `SELECT` + clientColumns + ` FROM clients WHERE phone_number = $1`

	err := r.db.GetContext(ctx, &row, query, number)
	if err == nil {
		return core.ClientRecord(row.toClient()), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.TenantRecord{}, fmt.Errorf("failed to look up inbox %s: %w", number, err)
	}

	var wrow workspaceRow
	wquery := `SELECT` + workspaceColumns + `
        FROM workspaces w
        JOIN workspace_phone_numbers wp ON wp.workspace_id = w.id
        WHERE wp.phone_number = $1`

	if err := r.db.GetContext(ctx, &wrow, wquery, number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.TenantRecord{}, ErrTenantNotFound
		}
		return core.TenantRecord{}, fmt.Errorf("failed to look up inbox %s: %w", number, err)
	}

	return core.WorkspaceRecord(wrow.toWorkspace()), nil
}

func (r *TenantRepository) ListClients(ctx context.Context) ([]*core.Client, error) {
	var rows []clientRow
	query := `SELECT` + clientColumns + ` FROM clients ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := make([]*core.Client, 0, len(rows))
	for i := range rows {
		clients = append(clients, rows[i].toClient())
	}
	return clients, nil
}

func (r *TenantRepository) ListWorkspaces(ctx context.Context) ([]*core.Workspace, error) {
	var rows []workspaceRow
	query := `SELECT` + workspaceColumns + ` FROM workspaces w ORDER BY w.created_at`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	workspaces := make([]*core.Workspace, 0, len(rows))
	for i := range rows {
		workspaces = append(workspaces, rows[i].toWorkspace())
	}
	return workspaces, nil
}

func (row *clientRow) toClient() *core.Client {
	c := &core.Client{
		ID:           row.ID,
		BusinessName: row.BusinessName,
		ContactEmail: row.ContactEmail,
		PhoneNumber:  row.PhoneNumber,
		Niche:        row.Niche,
		Slug:         row.Slug,
		Config: core.TenantConfig{
			BusinessHours:     row.BusinessHours,
			Timezone:          row.Timezone,
			AfterHoursMessage: row.AfterHoursMessage,
			AdminNumbers:      row.AdminNumbers,
		},
		Subscription: row.subscriptionRow.toSubscription(),
	}
	if row.CreatedAt.Valid {
		c.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		c.UpdatedAt = row.UpdatedAt.Time
	}
	return c
}

func (row *workspaceRow) toWorkspace() *core.Workspace {
	w := &core.Workspace{
		ID:           row.ID,
		Name:         row.Name,
		ContactEmail: row.ContactEmail,
		PhoneNumbers: row.PhoneNumbers,
		Settings: core.WorkspaceSettings{
			BusinessHours:     row.BusinessHours,
			Timezone:          row.Timezone,
			AfterHoursMessage: row.AfterHoursMessage,
			AdminNumbers:      row.AdminNumbers,
		},
		Subscription: row.subscriptionRow.toSubscription(),
	}
	if row.CreatedAt.Valid {
		w.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		w.UpdatedAt = row.UpdatedAt.Time
	}
	return w
}

func (row *subscriptionRow) toSubscription() core.Subscription {
	sub := core.Subscription{
		Status: core.SubscriptionStatus(row.Status),
		Tier:   core.Tier(row.Tier),
	}
	sub.TrialStartDate = timePtr(row.TrialStartDate)
	sub.TrialEndDate = timePtr(row.TrialEndDate)
	sub.SubscriptionStartDate = timePtr(row.SubscriptionStartDate)
	sub.SubscriptionEndDate = timePtr(row.SubscriptionEndDate)
	sub.LastPaymentDate = timePtr(row.LastPaymentDate)
	if row.PaymentMethod.Valid {
		sub.PaymentMethod = row.PaymentMethod.String
	}
	return sub
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
