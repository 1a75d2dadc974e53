package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stockledger/backend/internal/domain/inventory"
)

// GormNumberGenerator derives the next {PREFIX}{YYMMDD}{COUNTER} reference
// from the highest number already persisted for the day, so multiple
// service instances sharing one database never hand out colliding numbers.
// Call it inside the transaction that inserts the numbered row; the unique
// index on the number column catches the remaining race.
type GormNumberGenerator struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormNumberGenerator creates a database-backed number generator
func NewGormNumberGenerator(db *gorm.DB) *GormNumberGenerator {
	return &GormNumberGenerator{db: db, now: time.Now}
}

// NextNumber returns the next reference number for the prefix
func (g *GormNumberGenerator) NextNumber(ctx context.Context, prefix string) (string, error) {
	day := g.now().Format("060102")
	like := prefix + day + "%"

	var maxNumber string
	err := g.db.WithContext(ctx).
		Model(&inventory.StockTransfer{}).
		Select("number").
		Where("number LIKE ?", like).
		Order("number DESC").
		Limit(1).
		Pluck("number", &maxNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	seq := 1
	if len(maxNumber) > len(prefix)+len(day) {
		var last int
		if _, err := fmt.Sscanf(maxNumber[len(prefix)+len(day):], "%05d", &last); err == nil {
			seq = last + 1
		}
	}

	return fmt.Sprintf("%s%s%05d", prefix, day, seq), nil
}

var _ inventory.NumberGenerator = (*GormNumberGenerator)(nil)
