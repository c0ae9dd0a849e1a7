package shared

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	LoadedVersion() int
	MarkLoaded()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
	// loadedVersion is the version the aggregate carried when it was read
	// from the store. Optimistic-lock predicates must compare against this
	// snapshot, not Version-1, because a single unit of work may run more
	// than one mutator and each mutator bumps Version.
	loadedVersion int `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// LoadedVersion returns the version snapshot taken at load time
func (a *BaseAggregateRoot) LoadedVersion() int {
	return a.loadedVersion
}

// MarkLoaded snapshots the current version as the one held by the store.
// Repositories call it after hydrating an aggregate and after a
// successful optimistic-lock write.
func (a *BaseAggregateRoot) MarkLoaded() {
	a.loadedVersion = a.Version
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:    NewBaseEntity(),
		Version:       1,
		loadedVersion: 1,
		domainEvents:  make([]DomainEvent, 0),
	}
}

// AuditedAggregateRoot extends BaseAggregateRoot with actor tracking and an
// explicit soft-delete marker. Deletion is never physical: repositories filter
// on DeletedAt, and callers flip the marker through MarkDeleted.
type AuditedAggregateRoot struct {
	BaseAggregateRoot
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
	DeletedAt *time.Time `gorm:"index"`
	DeletedBy *uuid.UUID `gorm:"type:uuid"`
}

// NewAuditedAggregateRoot creates a new audited aggregate root
func NewAuditedAggregateRoot() AuditedAggregateRoot {
	return AuditedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
	}
}

// NewAuditedAggregateRootWithCreator creates a new audited aggregate root with creator info
func NewAuditedAggregateRootWithCreator(createdBy uuid.UUID) AuditedAggregateRoot {
	return AuditedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CreatedBy:         &createdBy,
	}
}

// SetUpdatedBy records the actor of the latest mutation
func (a *AuditedAggregateRoot) SetUpdatedBy(userID uuid.UUID) {
	a.UpdatedBy = &userID
}

// MarkDeleted sets the soft-delete marker. It does not touch the aggregate's
// own state machine; a deleted aggregate keeps whatever state it was in.
func (a *AuditedAggregateRoot) MarkDeleted(deletedBy uuid.UUID) {
	now := time.Now()
	a.DeletedAt = &now
	a.DeletedBy = &deletedBy
	a.UpdatedAt = now
}

// IsDeleted returns true if the soft-delete marker is set
func (a *AuditedAggregateRoot) IsDeleted() bool {
	return a.DeletedAt != nil
}
