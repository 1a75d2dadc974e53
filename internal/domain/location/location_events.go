package location

import (
	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockLocation = "StockLocation"

// Event type constants
const (
	EventTypeStockLocationCreated      = "StockLocationCreated"
	EventTypeStockLocationUpdated      = "StockLocationUpdated"
	EventTypeStockLocationActivated    = "StockLocationActivated"
	EventTypeStockLocationDeactivated  = "StockLocationDeactivated"
	EventTypeStockLocationSetAsDefault = "StockLocationSetAsDefault"
	EventTypeStockLocationDeleted      = "StockLocationDeleted"
)

// StockLocationCreatedEvent is raised when a location is created
type StockLocationCreatedEvent struct {
	shared.BaseDomainEvent
	StockLocationID uuid.UUID         `json:"stock_location_id"`
	Code            string            `json:"code"`
	Name            string            `json:"name"`
	Type            StockLocationType `json:"type"`
}

// NewStockLocationCreatedEvent creates a new StockLocationCreatedEvent
func NewStockLocationCreatedEvent(location *StockLocation) *StockLocationCreatedEvent {
	return &StockLocationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLocationCreated, AggregateTypeStockLocation, location.ID),
		StockLocationID: location.ID,
		Code:            location.Code,
		Name:            location.Name,
		Type:            location.Type,
	}
}

// EventType returns the event type name
func (e *StockLocationCreatedEvent) EventType() string {
	return EventTypeStockLocationCreated
}

// StockLocationUpdatedEvent is raised when basic information changes
type StockLocationUpdatedEvent struct {
	shared.BaseDomainEvent
	StockLocationID uuid.UUID `json:"stock_location_id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
}

// NewStockLocationUpdatedEvent creates a new StockLocationUpdatedEvent
func NewStockLocationUpdatedEvent(location *StockLocation) *StockLocationUpdatedEvent {
	return &StockLocationUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLocationUpdated, AggregateTypeStockLocation, location.ID),
		StockLocationID: location.ID,
		Code:            location.Code,
		Name:            location.Name,
	}
}

// EventType returns the event type name
func (e *StockLocationUpdatedEvent) EventType() string {
	return EventTypeStockLocationUpdated
}

// StockLocationActivatedEvent is raised when a location becomes active
type StockLocationActivatedEvent struct {
	shared.BaseDomainEvent
	StockLocationID uuid.UUID `json:"stock_location_id"`
	Code            string    `json:"code"`
}

// NewStockLocationActivatedEvent creates a new StockLocationActivatedEvent
func NewStockLocationActivatedEvent(location *StockLocation) *StockLocationActivatedEvent {
	return &StockLocationActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLocationActivated, AggregateTypeStockLocation, location.ID),
		StockLocationID: location.ID,
		Code:            location.Code,
	}
}

// EventType returns the event type name
func (e *StockLocationActivatedEvent) EventType() string {
	return EventTypeStockLocationActivated
}

// StockLocationDeactivatedEvent is raised when a location is hidden from
// stock operations
type StockLocationDeactivatedEvent struct {
	shared.BaseDomainEvent
	StockLocationID uuid.UUID `json:"stock_location_id"`
	Code            string    `json:"code"`
}

// NewStockLocationDeactivatedEvent creates a new StockLocationDeactivatedEvent
func NewStockLocationDeactivatedEvent(location *StockLocation) *StockLocationDeactivatedEvent {
	return &StockLocationDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLocationDeactivated, AggregateTypeStockLocation, location.ID),
		StockLocationID: location.ID,
		Code:            location.Code,
	}
}

// EventType returns the event type name
func (e *StockLocationDeactivatedEvent) EventType() string {
	return EventTypeStockLocationDeactivated
}

// StockLocationSetAsDefaultEvent is raised when a location becomes the
// default fulfillment source
type StockLocationSetAsDefaultEvent struct {
	shared.BaseDomainEvent
	StockLocationID uuid.UUID `json:"stock_location_id"`
	Code            string    `json:"code"`
}

// NewStockLocationSetAsDefaultEvent creates a new StockLocationSetAsDefaultEvent
func NewStockLocationSetAsDefaultEvent(location *StockLocation) *StockLocationSetAsDefaultEvent {
	return &StockLocationSetAsDefaultEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLocationSetAsDefault, AggregateTypeStockLocation, location.ID),
		StockLocationID: location.ID,
		Code:            location.Code,
	}
}

// EventType returns the event type name
func (e *StockLocationSetAsDefaultEvent) EventType() string {
	return EventTypeStockLocationSetAsDefault
}

// StockLocationDeletedEvent is raised after a location passed its delete
// guards and was removed
type StockLocationDeletedEvent struct {
	shared.BaseDomainEvent
	StockLocationID uuid.UUID `json:"stock_location_id"`
	Code            string    `json:"code"`
}

// NewStockLocationDeletedEvent creates a new StockLocationDeletedEvent
func NewStockLocationDeletedEvent(location *StockLocation) *StockLocationDeletedEvent {
	return &StockLocationDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLocationDeleted, AggregateTypeStockLocation, location.ID),
		StockLocationID: location.ID,
		Code:            location.Code,
	}
}

// EventType returns the event type name
func (e *StockLocationDeletedEvent) EventType() string {
	return EventTypeStockLocationDeleted
}
