package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"legato/internal/domain"
	"legato/internal/pricing"
)

// Summary is the consolidated view of a cart with its totals.
type Summary struct {
	Items     []domain.LineItem  `json:"items"`
	Totals    domain.OrderTotals `json:"totals"`
	ItemCount int                `json:"itemCount"`
}

// Catalog resolves a product id to the stored listing. Cart snapshots are
// always built from it, never from client supplied fields.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

const (
	DefaultMaxLineQuantity = 10
	DefaultMaxEntries      = 100
	// HardMaxEntries bounds both limits whatever the configuration says.
	HardMaxEntries = 1000
)

// Limits bounds cart growth. Zero values select the defaults.
type Limits struct {
	MaxLineQuantity int
	MaxEntries      int
}

func (l Limits) normalized() Limits {
	if l.MaxEntries <= 0 {
		l.MaxEntries = DefaultMaxEntries
	}
	if l.MaxEntries > HardMaxEntries {
		l.MaxEntries = HardMaxEntries
	}
	if l.MaxLineQuantity <= 0 {
		l.MaxLineQuantity = DefaultMaxLineQuantity
	}
	if l.MaxLineQuantity > l.MaxEntries {
		l.MaxLineQuantity = l.MaxEntries
	}
	return l
}

// Service applies cart mutations write-through: every change reads the stored
// list, edits the consolidated view and writes the flattened result back.
type Service struct {
	store   Store
	catalog Catalog
	pricing pricing.Config
	limits  Limits
	logger  *log.Logger
	now     func() time.Time
}

func NewService(store Store, catalog Catalog, cfg pricing.Config, limits Limits, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		store:   store,
		catalog: catalog,
		pricing: cfg,
		limits:  limits.normalized(),
		logger:  logger,
		now:     time.Now,
	}
}

// Limits reports the effective limits after defaults and clamping.
func (s *Service) Limits() Limits {
	return s.limits
}

// Items returns the consolidated line items. A corrupt stored cart reads as empty.
func (s *Service) Items(ctx context.Context, session string) ([]domain.LineItem, error) {
	entries, err := s.store.Read(ctx, session)
	if errors.Is(err, ErrCorruptCart) {
		s.logger.Printf("cart: session=%s discarding corrupt cart: %v", session, err)
		return []domain.LineItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Consolidate(entries), nil
}

func (s *Service) Summary(ctx context.Context, session string) (*Summary, error) {
	items, err := s.Items(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.summarize(items), nil
}

// Totals prices the current cart contents.
func (s *Service) Totals(ctx context.Context, session string) (domain.OrderTotals, error) {
	items, err := s.Items(ctx, session)
	if err != nil {
		return domain.OrderTotals{}, err
	}
	return pricing.ComputeTotals(items, s.pricing), nil
}

// Add appends quantity units of an approved catalog product to the cart.
func (s *Service) Add(ctx context.Context, session, productID string, quantity int) (*Summary, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.NewValidationError("id", "product id required")
	}
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "quantity must be positive")
	}
	if quantity > s.limits.MaxLineQuantity {
		return nil, s.lineLimitError()
	}

	entry, err := s.snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.Read(ctx, session)
	if errors.Is(err, ErrCorruptCart) {
		s.logger.Printf("cart: session=%s overwriting corrupt cart: %v", session, err)
		entries = nil
	} else if err != nil {
		return nil, err
	}

	held := 0
	for _, e := range entries {
		if e.ID == productID {
			held++
		}
	}
	if held+quantity > s.limits.MaxLineQuantity {
		return nil, s.lineLimitError()
	}
	if len(entries)+quantity > s.limits.MaxEntries {
		return nil, s.entryLimitError()
	}

	entry.AddedAt = s.now().UTC().Format(time.RFC3339)
	for i := 0; i < quantity; i++ {
		entries = append(entries, entry)
	}
	if err := s.store.Write(ctx, session, entries); err != nil {
		return nil, err
	}
	s.logger.Printf("cart: session=%s add id=%s qty=%d", session, entry.ID, quantity)
	return s.summarize(Consolidate(entries)), nil
}

// snapshot loads the listing and copies the fields a cart line displays.
// Unlisted products read as not found.
func (s *Service) snapshot(ctx context.Context, id string) (domain.CartEntry, error) {
	p, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return domain.CartEntry{}, err
	}
	if p.Status != domain.ProductApproved {
		return domain.CartEntry{}, domain.ErrNotFound
	}
	if !domain.ValidPrice(p.Price) {
		s.logger.Printf("cart: product id=%s has out of range price %d", p.ID, p.Price)
		return domain.CartEntry{}, domain.NewValidationError("price", "product price is out of range")
	}
	return domain.CartEntry{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		Seller:    domain.Seller{Name: p.SellerName},
		Category:  p.Category,
		Condition: p.Condition,
	}, nil
}

// UpdateQuantity sets the unit count for id; n <= 0 removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, session, id string, n int) (*Summary, error) {
	if n > s.limits.MaxLineQuantity {
		return nil, s.lineLimitError()
	}
	return s.mutate(ctx, session, func(items []domain.LineItem) ([]domain.LineItem, error) {
		updated, err := UpdateQuantity(items, id, n)
		if err != nil {
			return nil, err
		}
		if Count(updated) > s.limits.MaxEntries {
			return nil, s.entryLimitError()
		}
		return updated, nil
	})
}

func (s *Service) lineLimitError() error {
	return domain.NewValidationError("quantity", fmt.Sprintf("at most %d units of one product per cart", s.limits.MaxLineQuantity))
}

func (s *Service) entryLimitError() error {
	return domain.NewValidationError("quantity", fmt.Sprintf("a cart holds at most %d units", s.limits.MaxEntries))
}

func (s *Service) Remove(ctx context.Context, session, id string) (*Summary, error) {
	return s.mutate(ctx, session, func(items []domain.LineItem) ([]domain.LineItem, error) {
		return Remove(items, id)
	})
}

// Clear empties the cart. Clearing an empty cart is a no-op.
func (s *Service) Clear(ctx context.Context, session string) error {
	if err := s.store.Clear(ctx, session); err != nil {
		return err
	}
	s.logger.Printf("cart: session=%s cleared", session)
	return nil
}

func (s *Service) mutate(ctx context.Context, session string, fn func([]domain.LineItem) ([]domain.LineItem, error)) (*Summary, error) {
	items, err := s.Items(ctx, session)
	if err != nil {
		return nil, err
	}
	updated, err := fn(items)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(ctx, session, Flatten(updated, s.now())); err != nil {
		return nil, err
	}
	return s.summarize(updated), nil
}

func (s *Service) summarize(items []domain.LineItem) *Summary {
	return &Summary{
		Items:     items,
		Totals:    pricing.ComputeTotals(items, s.pricing),
		ItemCount: Count(items),
	}
}
