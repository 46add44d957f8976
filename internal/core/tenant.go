package core

import (
	"strings"
	"time"
)

type SubscriptionStatus string

const (
	StatusTrial     SubscriptionStatus = "trial"
	StatusActive    SubscriptionStatus = "active"
	StatusExpired   SubscriptionStatus = "expired"
	StatusCancelled SubscriptionStatus = "cancelled"
)

type Tier string

const (
	TierStarter Tier = "starter"
	TierPro     Tier = "pro"
)

type Subscription struct {
	Status                SubscriptionStatus `json:"status" db:"status"`
	Tier                  Tier               `json:"tier" db:"tier"`
	TrialStartDate        *time.Time         `json:"trial_start_date,omitempty" db:"trial_start_date"`
	TrialEndDate          *time.Time         `json:"trial_end_date,omitempty" db:"trial_end_date"`
	SubscriptionStartDate *time.Time         `json:"subscription_start_date,omitempty" db:"subscription_start_date"`
	SubscriptionEndDate   *time.Time         `json:"subscription_end_date,omitempty" db:"subscription_end_date"`
	LastPaymentDate       *time.Time         `json:"last_payment_date,omitempty" db:"last_payment_date"`
	PaymentMethod         string             `json:"payment_method,omitempty" db:"payment_method"`
}

// TenantConfig is the flattened per-inbox behaviour settings. The legacy
// client row stores these directly; workspaces keep them nested under
// settings and the adapter flattens them.
type TenantConfig struct {
	BusinessHours     string   `json:"business_hours"`
	Timezone          string   `json:"timezone"`
	AfterHoursMessage string   `json:"after_hours_message"`
	AdminNumbers      []string `json:"admin_numbers"`
}

// Client is the legacy tenant record. It is also the canonical shape the
// guard layer works with, so normalizing a Client is the identity mapping.
type Client struct {
	ID           string       `json:"id" db:"id"`
	BusinessName string       `json:"business_name" db:"business_name"`
	ContactEmail string       `json:"contact_email" db:"contact_email"`
	PhoneNumber  string       `json:"phone_number" db:"phone_number"`
	Niche        string       `json:"niche" db:"niche"`
	Slug         string       `json:"slug" db:"slug"`
	Config       TenantConfig `json:"config"`
	Subscription Subscription `json:"subscription"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WorkspaceSettings mirrors TenantConfig but lives nested on the newer record.
type WorkspaceSettings struct {
	BusinessHours     string   `json:"business_hours"`
	Timezone          string   `json:"timezone"`
	AfterHoursMessage string   `json:"after_hours_message"`
	AdminNumbers      []string `json:"admin_numbers"`
}

// Workspace is the newer tenant record introduced by the schema migration.
// Unlike a Client it can own several inbox numbers and has no niche/slug.
type Workspace struct {
	ID           string            `json:"id" db:"id"`
	Name         string            `json:"name" db:"name"`
	ContactEmail string            `json:"contact_email" db:"contact_email"`
	PhoneNumbers []string          `json:"phone_numbers"`
	Settings     WorkspaceSettings `json:"settings"`
	Subscription Subscription      `json:"subscription"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type TenantKind string

const (
	KindClient    TenantKind = "client"
	KindWorkspace TenantKind = "workspace"
)

// TenantRecord is the tagged union over the two tenant variants. Exactly one
// of the pointers is set, selected by Kind.
type TenantRecord struct {
	Kind      TenantKind `json:"kind"`
	Client    *Client    `json:"client,omitempty"`
	Workspace *Workspace `json:"workspace,omitempty"`
}

func ClientRecord(c *Client) TenantRecord {
	return TenantRecord{Kind: KindClient, Client: c}
}

func WorkspaceRecord(w *Workspace) TenantRecord {
	return TenantRecord{Kind: KindWorkspace, Workspace: w}
}

func (r TenantRecord) ID() string {
	switch r.Kind {
	case KindClient:
		return r.Client.ID
	case KindWorkspace:
		return r.Workspace.ID
	}
	return ""
}

func (r TenantRecord) Subscription() Subscription {
	switch r.Kind {
	case KindClient:
		return r.Client.Subscription
	case KindWorkspace:
		return r.Workspace.Subscription
	}
	return Subscription{}
}

// NormalizedTenant is the canonical single-number shape every collaborator
// downstream of the adapter consumes. Field-for-field it matches the legacy
// Client record.
type NormalizedTenant struct {
	ID           string       `json:"id"`
	BusinessName string       `json:"business_name"`
	ContactEmail string       `json:"contact_email"`
	PhoneNumber  string       `json:"phone_number"`
	Niche        string       `json:"niche"`
	Slug         string       `json:"slug"`
	Config       TenantConfig `json:"config"`
	Subscription Subscription `json:"subscription"`
}

// Slugify builds the synthesized slug for workspaces, which never stored one.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, s)
	return strings.Trim(s, "-")
}
