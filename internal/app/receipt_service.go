package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/till/internal/core/catalog"
	"github.com/example/till/internal/core/receipt"
	"github.com/example/till/internal/core/snapshot"
	"github.com/example/till/internal/ports/primary"
	"github.com/example/till/internal/ports/secondary"
)

// ReceiptServiceConfig holds the service's behaviour switches.
type ReceiptServiceConfig struct {
	Variant  receipt.Variant
	Autosave bool
}

// ReceiptServiceImpl implements the ReceiptService interface.
// It is the single owner of the view-model; a mutex serialises intents
// arriving from concurrent HTTP handlers.
type ReceiptServiceImpl struct {
	mu sync.Mutex

	repo    secondary.SnapshotRepository
	source  secondary.CatalogSource
	sampler *catalog.Sampler
	cfg     ReceiptServiceConfig
	logger  *zap.Logger

	now   func() time.Time
	newID func() string

	vm *receipt.ViewModel
}

// NewReceiptService creates a new ReceiptService with injected dependencies.
func NewReceiptService(
	repo secondary.SnapshotRepository,
	source secondary.CatalogSource,
	sampler *catalog.Sampler,
	cfg ReceiptServiceConfig,
	logger *zap.Logger,
) *ReceiptServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sampler == nil {
		sampler = catalog.NewSampler(nil)
	}
	return &ReceiptServiceImpl{
		repo:    repo,
		source:  source,
		sampler: sampler,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Load restores the persisted snapshot, or the sample items when nothing
// usable is stored.
func (s *ReceiptServiceImpl) Load(ctx context.Context) (*primary.ReceiptView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vm = s.restore(ctx)
	return s.view(s.vm.Recompute()), nil
}

// Preview recomputes the receipt from the current state.
func (s *ReceiptServiceImpl) Preview(ctx context.Context) (*primary.ReceiptView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view(s.model(ctx).Recompute()), nil
}

// AddItem appends a line item.
func (s *ReceiptServiceImpl) AddItem(ctx context.Context, req primary.AddItemRequest) (*primary.ReceiptView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.model(ctx).AddItem(receipt.LineItem{Name: req.Name, Price: req.Price, Code: req.Code})
	s.persist(ctx)
	return s.view(r), nil
}

// RemoveItem removes the item at index; removing the last item is a no-op.
func (s *ReceiptServiceImpl) RemoveItem(ctx context.Context, index int) (*primary.ReceiptView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vm := s.model(ctx)
	guard := receipt.CanRemoveItem(receipt.RemoveItemContext{Index: index, ItemCount: len(vm.Items())})

	r, err := vm.RemoveItem(index)
	if err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}
	if !guard.Allowed {
		s.logger.Debug("remove skipped", zap.Int("index", index), zap.String("reason", guard.Reason))
		return s.view(r), nil
	}
	s.persist(ctx)
	return s.view(r), nil
}

// EditItem updates an item in place.
func (s *ReceiptServiceImpl) EditItem(ctx context.Context, req primary.EditItemRequest) (*primary.ReceiptView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.model(ctx).EditItem(req.Index, receipt.ItemEdit{
		Name:  req.Name,
		Price: req.Price,
		Code:  req.Code,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit item: %w", err)
	}
	s.persist(ctx)
	return s.view(r), nil
}

// UpdateHeader changes the store details, date or time.
func (s *ReceiptServiceImpl) UpdateHeader(ctx context.Context, req primary.UpdateHeaderRequest) (*primary.ReceiptView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vm := s.model(ctx)
	h := vm.Header()
	if req.StoreName != nil {
		h.StoreName = *req.StoreName
	}
	if req.StoreLocation != nil {
		h.StoreLocation = *req.StoreLocation
	}
	if req.StoreNumber != nil {
		h.StoreNumber = *req.StoreNumber
	}
	if req.Manager != nil {
		h.Manager = *req.Manager
	}
	if req.Date != nil {
		if *req.Date != "" && receipt.FormatDate(*req.Date) == "" {
			return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", *req.Date)
		}
		h.Date = *req.Date
	}
	if req.Time != nil {
		if _, ok := receipt.ParseClock(*req.Time); *req.Time != "" && !ok {
			return nil, fmt.Errorf("invalid time %q: expected HH:MM or HH:MM:SS", *req.Time)
		}
		h.Time = *req.Time
	}

	r := vm.SetHeader(h)
	s.persist(ctx)
	return s.view(r), nil
}

// Randomize replaces the items with a random draw from the catalog. On any
// failure the current items are left untouched.
func (s *ReceiptServiceImpl) Randomize(ctx context.Context) (*primary.ReceiptView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vm := s.model(ctx)
	if s.source == nil {
		return nil, errors.New("no catalog configured")
	}

	doc, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	cat, err := catalog.Parse(doc.Data, catalog.Format(doc.Format))
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", doc.Origin, err)
	}
	picks, err := s.sampler.Draw(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to draw items: %w", err)
	}

	items := make([]receipt.LineItem, len(picks))
	for i, p := range picks {
		items[i] = receipt.LineItem{Name: p.Name, Price: p.Price, Code: p.Code}
	}
	if _, err := vm.ReplaceItems(items); err != nil {
		return nil, fmt.Errorf("failed to replace items: %w", err)
	}
	// A new draw is a new transaction.
	h := vm.Header()
	h.TransactionID = s.sampler.TransactionID()
	r := vm.SetHeader(h)

	s.logger.Info("randomized items",
		zap.String("origin", doc.Origin),
		zap.Int("pool", len(cat.Flatten())),
		zap.Int("drawn", len(items)))
	s.persist(ctx)
	return s.view(r), nil
}

// Reset restores the sample items and today's date.
func (s *ReceiptServiceImpl) Reset(ctx context.Context) (*primary.ReceiptView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vm = s.sample()
	s.persist(ctx)
	return s.view(s.vm.Recompute()), nil
}

// Save writes the current snapshot and appends it to the history.
func (s *ReceiptServiceImpl) Save(ctx context.Context) (*primary.SaveResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model(ctx)
	return s.save(ctx)
}

// ListHistory lists saved snapshots, newest first. Unreadable entries are
// skipped.
func (s *ReceiptServiceImpl) ListHistory(ctx context.Context) ([]*primary.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.ListHistory(ctx)
	if errors.Is(err, secondary.ErrCorrupt) {
		s.logger.Warn("could not read saved history, treating as empty", zap.Error(err))
		return []*primary.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]*primary.HistoryEntry, 0, len(records))
	for _, rec := range records {
		snap, err := snapshot.Decode([]byte(rec.Payload))
		if err != nil {
			s.logger.Warn("skipping unreadable history entry", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		r := receipt.Recompute(s.cfg.Variant, snap.Header(), snap.LineItems())
		entries = append(entries, &primary.HistoryEntry{
			ID:        rec.ID,
			SavedAt:   rec.SavedAt,
			StoreName: r.StoreName,
			Date:      r.Date,
			ItemCount: len(snap.Items),
			Total:     r.TotalText(),
		})
	}
	return entries, nil
}

// RestoreHistory makes a history entry the current state.
func (s *ReceiptServiceImpl) RestoreHistory(ctx context.Context, id string) (*primary.ReceiptView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.repo.GetHistory(ctx, id)
	if err != nil {
		if errors.Is(err, secondary.ErrNotFound) || errors.Is(err, secondary.ErrCorrupt) {
			return nil, fmt.Errorf("%w: %s", primary.ErrHistoryNotFound, id)
		}
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	snap, err := snapshot.Decode([]byte(rec.Payload))
	if err != nil {
		return nil, fmt.Errorf("history entry %s is unreadable: %w", id, err)
	}

	s.vm = receipt.NewViewModel(s.cfg.Variant, s.withTransaction(snap.Header()), snap.LineItems())
	s.persist(ctx)
	return s.view(s.vm.Recompute()), nil
}

// Helper methods

// model returns the view-model, restoring it on first use.
func (s *ReceiptServiceImpl) model(ctx context.Context) *receipt.ViewModel {
	if s.vm == nil {
		s.vm = s.restore(ctx)
	}
	return s.vm
}

// restore builds a view-model from the current snapshot. Missing or corrupt
// data falls back to the sample items.
func (s *ReceiptServiceImpl) restore(ctx context.Context) *receipt.ViewModel {
	rec, err := s.repo.GetCurrent(ctx)
	if err != nil {
		if !errors.Is(err, secondary.ErrNotFound) {
			s.logger.Warn("could not read saved receipt, using sample items", zap.Error(err))
		}
		return s.sample()
	}

	snap, err := snapshot.Decode([]byte(rec.Payload))
	if err != nil {
		s.logger.Warn("saved receipt is unreadable, using sample items", zap.Error(err))
		return s.sample()
	}
	return receipt.NewViewModel(s.cfg.Variant, s.withTransaction(snap.Header()), snap.LineItems())
}

func (s *ReceiptServiceImpl) sample() *receipt.ViewModel {
	now := s.now()
	h := receipt.Header{
		Date:          receipt.ISODate(now),
		Time:          receipt.ISOClock(now),
		TransactionID: s.sampler.TransactionID(),
	}
	return receipt.NewViewModel(s.cfg.Variant, h, receipt.SampleItems())
}

// withTransaction assigns a transaction number to snapshots saved without
// one.
func (s *ReceiptServiceImpl) withTransaction(h receipt.Header) receipt.Header {
	if h.TransactionID == "" {
		h.TransactionID = s.sampler.TransactionID()
	}
	return h
}

func (s *ReceiptServiceImpl) save(ctx context.Context) (*primary.SaveResponse, error) {
	payload, err := snapshot.Encode(snapshot.FromState(s.vm.Header(), s.vm.Items()))
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveCurrent(ctx, &secondary.SnapshotRecord{Payload: string(payload)}); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	rec := &secondary.HistoryRecord{
		ID:      s.newID(),
		Payload: string(payload),
		SavedAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.AppendHistory(ctx, rec, snapshot.MaxHistory); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}

	return &primary.SaveResponse{HistoryID: rec.ID, SavedAt: rec.SavedAt}, nil
}

// persist saves after a mutation when autosave is on. Persistence is best
// effort: failures are logged and the intent still succeeds.
func (s *ReceiptServiceImpl) persist(ctx context.Context) {
	if !s.cfg.Autosave {
		return
	}
	if _, err := s.save(ctx); err != nil {
		s.logger.Warn("autosave failed", zap.Error(err))
	}
}

func (s *ReceiptServiceImpl) view(r receipt.Receipt) *primary.ReceiptView {
	h := s.vm.Header()
	v := &primary.ReceiptView{
		Variant:       r.Variant,
		StoreName:     r.StoreName,
		StoreLocation: r.StoreLocation,
		Manager:       r.Manager,
		Date:          r.Date,
		Time:          r.Time,
		Header: primary.Header{
			StoreName:     h.StoreName,
			StoreLocation: h.StoreLocation,
			StoreNumber:   h.StoreNumber,
			Manager:       h.Manager,
			Date:          h.Date,
			Time:          h.Time,
		},
		ItemCount:     r.ItemCount,
		TaxRate:       s.cfg.Variant.TaxRatePercent(),
		Subtotal:      r.SubtotalText(),
		Tax:           r.TaxText(),
		Total:         r.TotalText(),
		TransactionID: r.TransactionID,
		Footer:        r.Footer,
		ShowItemCodes: s.cfg.Variant.ShowItemCodes,
		ShowItemCount: s.cfg.Variant.ShowItemCount,

		ShowStoreDetails: s.cfg.Variant.ShowStoreDetails,
	}
	if r.ShowPayment {
		v.Payment = r.TotalText()
	}
	for i, item := range s.vm.Items() {
		v.Items = append(v.Items, primary.Item{Index: i, Name: item.Name, Price: item.Price, Code: item.Code})
	}
	for _, line := range r.Lines {
		v.Lines = append(v.Lines, primary.Line{Name: line.Name, Code: line.Code, Price: line.Price})
	}
	return v
}

// Ensure ReceiptServiceImpl implements the interface
var _ primary.ReceiptService = (*ReceiptServiceImpl)(nil)
