package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"legato/internal/domain"
	productrepo "legato/internal/repository/product"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Search entity types accepted by SearchAll.
const (
	TypeAll        = "all"
	TypeProducts   = "products"
	TypeCategories = "categories"
	TypeSellers    = "sellers"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Search lists approved products. Limit is clamped to [1, MaxLimit] and an
// unknown sort falls back to newest first.
func (s *Service) Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultLimit
	case filter.Limit > MaxLimit:
		filter.Limit = MaxLimit
	}
	switch filter.Sort {
	case domain.SortNewest, domain.SortPriceAsc, domain.SortPriceDesc:
	default:
		filter.Sort = domain.SortNewest
	}
	filter.Text = strings.TrimSpace(filter.Text)
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, domain.NewValidationError("minPrice", "minPrice must not exceed maxPrice")
	}
	return s.repo.Search(ctx, filter)
}

// Get returns an approved product. Pending and rejected listings are hidden.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.ProductApproved {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// SubmitInput is a seller's listing request.
type SubmitInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	ImageURL    string `json:"imageUrl"`
	SellerName  string `json:"sellerName"`
	SellerEmail string `json:"sellerEmail"`
}

// Submit stores a new listing awaiting moderation and returns it.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domain.Product, error) {
	p := domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Condition:   strings.TrimSpace(strings.ToLower(in.Condition)),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		SellerName:  strings.TrimSpace(in.SellerName),
		SellerEmail: strings.TrimSpace(strings.ToLower(in.SellerEmail)),
		Status:      domain.ProductPending,
	}
	if err := validateSubmission(p); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("listing %q already submitted by this seller: %w", p.Name, err)
		}
		return nil, err
	}
	return created, nil
}

func validateSubmission(p domain.Product) error {
	switch {
	case p.Name == "":
		return domain.NewValidationError("name", "Name is required")
	case p.Price <= 0:
		return domain.NewValidationError("price", "Price must be greater than zero")
	case p.Price > domain.MaxPrice:
		return domain.NewValidationError("price", fmt.Sprintf("Price must not exceed %d", domain.MaxPrice))
	case p.Category == "":
		return domain.NewValidationError("category", "Category is required")
	case !domain.ValidCondition(p.Condition):
		return domain.NewValidationError("condition", "Condition must be one of new, like-new, good, fair")
	case p.SellerName == "":
		return domain.NewValidationError("sellerName", "Seller name is required")
	}
	return nil
}

// SearchResults groups matches by entity. Entities not requested are nil.
type SearchResults struct {
	Products   []domain.Product         `json:"products,omitempty"`
	Categories []domain.CategorySummary `json:"categories,omitempty"`
	Sellers    []domain.SellerSummary   `json:"sellers,omitempty"`
}

// SearchAll looks the query up across products, categories and sellers.
func (s *Service) SearchAll(ctx context.Context, query, kind string) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "Search query is required")
	}
	if kind == "" {
		kind = TypeAll
	}
	switch kind {
	case TypeAll, TypeProducts, TypeCategories, TypeSellers:
	default:
		return nil, domain.NewValidationError("type", "type must be one of all, products, categories, sellers")
	}

	var out SearchResults
	g, gctx := errgroup.WithContext(ctx)
	if kind == TypeAll || kind == TypeProducts {
		g.Go(func() error {
			res, err := s.Search(gctx, domain.ProductFilter{Text: query, Limit: DefaultLimit})
			out.Products = res
			return err
		})
	}
	if kind == TypeAll || kind == TypeCategories {
		g.Go(func() error {
			res, err := s.repo.Categories(gctx, query)
			out.Categories = res
			return err
		})
	}
	if kind == TypeAll || kind == TypeSellers {
		g.Go(func() error {
			res, err := s.repo.Sellers(gctx, query)
			out.Sellers = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories lists the categories that have approved listings.
func (s *Service) Categories(ctx context.Context) ([]domain.CategorySummary, error) {
	return s.repo.Categories(ctx, "")
}
