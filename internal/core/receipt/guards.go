package receipt

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when an item index does not address a row.
var ErrIndexOutOfRange = errors.New("item index out of range")

// ErrEmptyItems is returned when a replacement would leave no rows.
var ErrEmptyItems = errors.New("at least one item is required")

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// RemoveItemContext provides context for item removal guards.
type RemoveItemContext struct {
	Index     int
	ItemCount int
}

// CanRemoveItem evaluates whether the row at Index may be removed.
// Rules:
// - at least one row must remain
// - Index must address an existing row
func CanRemoveItem(ctx RemoveItemContext) GuardResult {
	if ctx.ItemCount <= 1 {
		return GuardResult{
			Allowed: false,
			Reason:  "at least one item must remain",
		}
	}

	if ctx.Index < 0 || ctx.Index >= ctx.ItemCount {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("item %d does not exist (have %d items)", ctx.Index, ctx.ItemCount),
		}
	}

	return GuardResult{Allowed: true}
}

// CheckIndex returns ErrIndexOutOfRange unless 0 <= index < count.
func CheckIndex(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("%w: %d (have %d items)", ErrIndexOutOfRange, index, count)
	}
	return nil
}
