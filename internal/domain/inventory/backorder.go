package inventory

import "sort"

// FillBackorders transitions backordered units to on hand in strict
// creation order, consuming from the given restocked quantity. Fill is
// whole-unit only: the scan stops at the first unit whose quantity exceeds
// the remaining headroom, so a later smaller unit never jumps the queue.
//
// Returns the units that were filled and the unconsumed remainder. Callers
// run this inside the same transaction as the triggering adjustment.
func FillBackorders(units []*InventoryUnit, quantity int64) ([]*InventoryUnit, int64) {
	if quantity <= 0 || len(units) == 0 {
		return nil, quantity
	}

	ordered := make([]*InventoryUnit, len(units))
	copy(ordered, units)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].CreatedAt.Before(ordered[b].CreatedAt)
	})

	filled := make([]*InventoryUnit, 0, len(ordered))
	remaining := quantity

	for _, unit := range ordered {
		if unit.State != UnitStateBackordered {
			continue
		}
		if unit.Quantity > remaining {
			break
		}
		if err := unit.FillBackorder(); err != nil {
			break
		}
		remaining -= unit.Quantity
		filled = append(filled, unit)
	}

	return filled, remaining
}
