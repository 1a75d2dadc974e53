package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/stockledger/backend/internal/domain/shared"
)

// StockTransfer is the header of a multi-item stock move: a two-sided
// transfer between locations, or a one-sided receipt from an external
// supplier. The resulting StockMovements stay owned by the affected
// StockItems; the transfer only stamps them with its ID for traceability.
type StockTransfer struct {
	shared.BaseAggregateRoot
	Number                string     `gorm:"type:varchar(40);not null;uniqueIndex"`
	SourceLocationID      *uuid.UUID `gorm:"type:uuid;index"`
	DestinationLocationID *uuid.UUID `gorm:"type:uuid;index"`
	Reference             string     `gorm:"type:varchar(255)"`

	Lines []StockTransferLine `gorm:"foreignKey:StockTransferID;references:ID"`
}

// TableName returns the table name for GORM
func (StockTransfer) TableName() string {
	return "stock_transfers"
}

// StockTransferLine is one (variant, quantity) pair moved by a transfer
type StockTransferLine struct {
	shared.BaseEntity
	StockTransferID uuid.UUID `gorm:"type:uuid;not null;index"`
	VariantID       uuid.UUID `gorm:"type:uuid;not null"`
	Quantity        int64     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockTransferLine) TableName() string {
	return "stock_transfer_lines"
}

// NewStockTransfer creates a transfer between two locations
func NewStockTransfer(
	number string,
	sourceLocationID, destinationLocationID uuid.UUID,
	reference string,
	variantQuantities map[uuid.UUID]int64,
) (*StockTransfer, error) {
	if sourceLocationID == uuid.Nil || destinationLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Transfer requires both source and destination locations")
	}
	if sourceLocationID == destinationLocationID {
		return nil, shared.NewDomainError("SOURCE_EQUALS_DESTINATION", "Source and destination locations must differ")
	}

	transfer := &StockTransfer{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		Number:                number,
		SourceLocationID:      &sourceLocationID,
		DestinationLocationID: &destinationLocationID,
		Reference:             reference,
	}

	if err := transfer.setLines(variantQuantities); err != nil {
		return nil, err
	}

	return transfer, nil
}

// NewStockReceipt creates a one-sided transfer crediting a destination
// location from an external supplier.
func NewStockReceipt(
	number string,
	destinationLocationID uuid.UUID,
	reference string,
	variantQuantities map[uuid.UUID]int64,
) (*StockTransfer, error) {
	if destinationLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Receipt requires a destination location")
	}

	transfer := &StockTransfer{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		Number:                number,
		DestinationLocationID: &destinationLocationID,
		Reference:             reference,
	}

	if err := transfer.setLines(variantQuantities); err != nil {
		return nil, err
	}

	return transfer, nil
}

// setLines validates and attaches lines in deterministic variant order
func (t *StockTransfer) setLines(variantQuantities map[uuid.UUID]int64) error {
	if len(variantQuantities) == 0 {
		return shared.NewDomainError("NO_VARIANTS", "Transfer must carry at least one variant")
	}

	variants := make([]uuid.UUID, 0, len(variantQuantities))
	for variantID, quantity := range variantQuantities {
		if variantID == uuid.Nil {
			return shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
		}
		if quantity <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Transfer quantities must be positive")
		}
		variants = append(variants, variantID)
	}
	sort.Slice(variants, func(a, b int) bool {
		return variants[a].String() < variants[b].String()
	})

	t.Lines = make([]StockTransferLine, 0, len(variants))
	for _, variantID := range variants {
		t.Lines = append(t.Lines, StockTransferLine{
			BaseEntity:      shared.NewBaseEntity(),
			StockTransferID: t.ID,
			VariantID:       variantID,
			Quantity:        variantQuantities[variantID],
		})
	}

	return nil
}

// IsReceipt returns true for one-sided supplier intakes
func (t *StockTransfer) IsReceipt() bool {
	return t.SourceLocationID == nil
}

// TotalQuantity returns the sum of all line quantities
func (t *StockTransfer) TotalQuantity() int64 {
	var total int64
	for _, line := range t.Lines {
		total += line.Quantity
	}
	return total
}
