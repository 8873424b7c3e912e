package receipt

import "slices"

// ItemEdit carries the fields to change on an existing row; nil fields are
// left untouched.
type ItemEdit struct {
	Name  *string
	Price *string
	Code  *string
}

// ViewModel owns the header and the ordered item list. It always holds at
// least one row so the list stays editable.
type ViewModel struct {
	variant Variant
	header  Header
	items   []LineItem
}

// NewViewModel creates a view-model over a copy of items. An empty item list
// is given a single blank row.
func NewViewModel(v Variant, h Header, items []LineItem) *ViewModel {
	m := &ViewModel{
		variant: v,
		header:  h,
		items:   slices.Clone(items),
	}
	if len(m.items) == 0 {
		m.items = []LineItem{{}}
	}
	return m
}

// Variant returns the store variant.
func (m *ViewModel) Variant() Variant { return m.variant }

// Header returns the current header.
func (m *ViewModel) Header() Header { return m.header }

// Items returns a copy of the current item list.
func (m *ViewModel) Items() []LineItem { return slices.Clone(m.items) }

// Recompute derives the receipt from the current state.
func (m *ViewModel) Recompute() Receipt {
	return Recompute(m.variant, m.header, m.items)
}

// SetHeader replaces the header.
func (m *ViewModel) SetHeader(h Header) Receipt {
	m.header = h
	return m.Recompute()
}

// AddItem appends item; the zero LineItem is a blank row for manual entry.
func (m *ViewModel) AddItem(item LineItem) Receipt {
	m.items = append(m.items, item)
	return m.Recompute()
}

// RemoveItem removes the row at index. Removing the only remaining row is a
// no-op.
func (m *ViewModel) RemoveItem(index int) (Receipt, error) {
	if err := CheckIndex(index, len(m.items)); err != nil {
		return m.Recompute(), err
	}
	if !CanRemoveItem(RemoveItemContext{Index: index, ItemCount: len(m.items)}).Allowed {
		return m.Recompute(), nil
	}
	m.items = slices.Delete(m.items, index, index+1)
	return m.Recompute(), nil
}

// EditItem updates the row at index in place.
func (m *ViewModel) EditItem(index int, edit ItemEdit) (Receipt, error) {
	if err := CheckIndex(index, len(m.items)); err != nil {
		return m.Recompute(), err
	}
	item := &m.items[index]
	if edit.Name != nil {
		item.Name = *edit.Name
	}
	if edit.Price != nil {
		item.Price = *edit.Price
	}
	if edit.Code != nil {
		item.Code = *edit.Code
	}
	return m.Recompute(), nil
}

// ReplaceItems swaps the whole item list. An empty replacement is rejected
// and the current list is kept.
func (m *ViewModel) ReplaceItems(items []LineItem) (Receipt, error) {
	if len(items) == 0 {
		return m.Recompute(), ErrEmptyItems
	}
	m.items = slices.Clone(items)
	return m.Recompute(), nil
}
