package location

import (
	"strings"
	"time"

	"github.com/stockledger/backend/internal/domain/shared"
)

// StockLocationType represents the kind of fulfillment source a location is
type StockLocationType string

const (
	LocationTypeWarehouse StockLocationType = "warehouse" // Physical warehouse
	LocationTypeStore     StockLocationType = "store"     // Retail store fulfilling orders
	LocationTypeDropship  StockLocationType = "dropship"  // Third-party dropship source
	LocationTypeTransit   StockLocationType = "transit"   // In-transit holding location
)

// StockLocation is a named place stock lives at. It is the aggregate root
// for location lifecycle; the quantities themselves live on StockItems
// keyed by location ID.
type StockLocation struct {
	shared.BaseAggregateRoot
	Code                 string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_stock_location_code"`
	Name                 string            `gorm:"type:varchar(200);not null"`
	Presentation         string            `gorm:"type:varchar(200)"` // Customer-facing display name
	Type                 StockLocationType `gorm:"type:varchar(20);not null;default:'warehouse'"`
	Address              string            `gorm:"type:text"`
	City                 string            `gorm:"type:varchar(100)"`
	Region               string            `gorm:"type:varchar(100)"`
	PostalCode           string            `gorm:"type:varchar(20)"`
	Country              string            `gorm:"type:varchar(100)"`
	Phone                string            `gorm:"type:varchar(50)"`
	Active               bool              `gorm:"not null;default:true"`
	Default              bool              `gorm:"column:is_default;not null;default:false"`
	BackorderableDefault bool              `gorm:"not null;default:true"` // Default for new stock items here
	FulfillableOnline    bool              `gorm:"not null;default:true"` // Eligible for online order fulfillment
	SortOrder            int               `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLocation) TableName() string {
	return "stock_locations"
}

// NewStockLocation creates an active location with required fields
func NewStockLocation(code, name string, locationType StockLocationType) (*StockLocation, error) {
	if err := validateLocationCode(code); err != nil {
		return nil, err
	}
	if err := validateLocationName(name); err != nil {
		return nil, err
	}
	if err := validateLocationType(locationType); err != nil {
		return nil, err
	}

	location := &StockLocation{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		Code:                 strings.ToUpper(code),
		Name:                 name,
		Type:                 locationType,
		Active:               true,
		Default:              false,
		BackorderableDefault: true,
		FulfillableOnline:    true,
	}

	location.AddDomainEvent(NewStockLocationCreatedEvent(location))

	return location, nil
}

// NewWarehouseLocation creates a warehouse-type location
func NewWarehouseLocation(code, name string) (*StockLocation, error) {
	return NewStockLocation(code, name, LocationTypeWarehouse)
}

// DisplayName returns the customer-facing name, falling back to Name
func (l *StockLocation) DisplayName() string {
	if l.Presentation != "" {
		return l.Presentation
	}
	return l.Name
}

// Update updates the location's basic information
func (l *StockLocation) Update(name, presentation string) error {
	if err := validateLocationName(name); err != nil {
		return err
	}
	if presentation != "" && len(presentation) > 200 {
		return shared.NewDomainError("INVALID_PRESENTATION", "Presentation name cannot exceed 200 characters")
	}

	l.Name = name
	l.Presentation = presentation
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewStockLocationUpdatedEvent(l))

	return nil
}

// UpdateCode changes the location's unique code
func (l *StockLocation) UpdateCode(code string) error {
	if err := validateLocationCode(code); err != nil {
		return err
	}

	l.Code = strings.ToUpper(code)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewStockLocationUpdatedEvent(l))

	return nil
}

// SetAddress sets the location's address information
func (l *StockLocation) SetAddress(address, city, region, postalCode, country string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if region != "" && len(region) > 100 {
		return shared.NewDomainError("INVALID_REGION", "Region cannot exceed 100 characters")
	}
	if postalCode != "" && len(postalCode) > 20 {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot exceed 20 characters")
	}
	if country != "" && len(country) > 100 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country cannot exceed 100 characters")
	}

	l.Address = address
	l.City = city
	l.Region = region
	l.PostalCode = postalCode
	l.Country = country
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetPhone sets the location's contact phone
func (l *StockLocation) SetPhone(phone string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	l.Phone = phone
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetDefault marks or unmarks this location as the default fulfillment
// source. Callers clearing the flag on the current default must promote
// another location in the same transaction.
func (l *StockLocation) SetDefault(isDefault bool) {
	if l.Default == isDefault {
		return
	}

	l.Default = isDefault
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	if isDefault {
		l.AddDomainEvent(NewStockLocationSetAsDefaultEvent(l))
	}
}

// SetBackorderableDefault controls whether new stock items opened at this
// location accept backorders by default
func (l *StockLocation) SetBackorderableDefault(backorderable bool) {
	l.BackorderableDefault = backorderable
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// SetFulfillableOnline toggles eligibility for online order fulfillment
func (l *StockLocation) SetFulfillableOnline(fulfillable bool) {
	l.FulfillableOnline = fulfillable
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// SetSortOrder sets the display order
func (l *StockLocation) SetSortOrder(order int) {
	l.SortOrder = order
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Activate makes the location available for stock operations
func (l *StockLocation) Activate() error {
	if l.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Stock location is already active")
	}

	l.Active = true
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewStockLocationActivatedEvent(l))

	return nil
}

// Deactivate hides the location from stock operations. The default
// location cannot be deactivated; promote another default first.
func (l *StockLocation) Deactivate() error {
	if !l.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Stock location is already inactive")
	}
	if l.Default {
		return shared.NewDomainError("CANNOT_DEACTIVATE_DEFAULT", "Default stock location cannot be deactivated")
	}

	l.Active = false
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewStockLocationDeactivatedEvent(l))

	return nil
}

// FullAddress returns the formatted full address
func (l *StockLocation) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, part := range []string{l.Address, l.City, l.Region, l.PostalCode, l.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// Validation functions

func validateLocationCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Location code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Location code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Location code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateLocationName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Location name cannot exceed 200 characters")
	}
	return nil
}

func validateLocationType(t StockLocationType) error {
	switch t {
	case LocationTypeWarehouse, LocationTypeStore, LocationTypeDropship, LocationTypeTransit:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Invalid stock location type")
	}
}
