package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/gin-gonic/gin"
	"legato/internal/cart"
	"legato/internal/checkout"
	"legato/internal/domain"
	"legato/internal/pricing"
	authsvc "legato/internal/service/auth"
	productsvc "legato/internal/service/product"
	"legato/internal/wishlist"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubProductService struct {
	products  []domain.Product
	err       error
	submitted *productsvc.SubmitInput
	submitErr error
}

func (s *stubProductService) Search(_ context.Context, _ domain.ProductFilter) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductService) Submit(_ context.Context, in productsvc.SubmitInput) (*domain.Product, error) {
	s.submitted = &in
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &domain.Product{ID: "prod-1", Name: in.Name}, nil
}

func (s *stubProductService) SearchAll(_ context.Context, query, _ string) (*productsvc.SearchResults, error) {
	return &productsvc.SearchResults{Products: s.products}, s.err
}

func (s *stubProductService) Categories(context.Context) ([]domain.CategorySummary, error) {
	return []domain.CategorySummary{{Name: "Guitars", Count: 1}}, nil
}

type stubCatalog map[string]*domain.Product

func (c stubCatalog) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := c[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func newStubCatalog() stubCatalog {
	return stubCatalog{
		"A": {ID: "A", Name: "Guitar", Price: 25000, SellerName: "Ravi", Category: "Guitars", Condition: "good", Status: domain.ProductApproved},
		"B": {ID: "B", Name: "Strings", Price: 10000, SellerName: "Meera", Category: "Accessories", Condition: "new", Status: domain.ProductApproved},
		"P": {ID: "P", Name: "Sitar", Price: 40000, SellerName: "Kabir", Category: "Strings", Condition: "fair", Status: domain.ProductPending},
	}
}

type stubAdminService struct {
	pending    []domain.Product
	approveErr error
	rejectErr  error
	reason     string
	revenueErr error
}

func (s *stubAdminService) ListPending(context.Context) ([]domain.Product, error) {
	return s.pending, nil
}

func (s *stubAdminService) Approve(_ context.Context, id string) (*domain.Product, error) {
	if s.approveErr != nil {
		return nil, s.approveErr
	}
	return &domain.Product{ID: id, Status: domain.ProductApproved}, nil
}

func (s *stubAdminService) Reject(_ context.Context, id, reason string) (*domain.Product, error) {
	s.reason = reason
	if s.rejectErr != nil {
		return nil, s.rejectErr
	}
	return &domain.Product{ID: id, Status: domain.ProductRejected}, nil
}

func (s *stubAdminService) Stats(context.Context) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{TotalRevenue: 70800, PendingReviews: 2}, nil
}

func (s *stubAdminService) RecentListings(context.Context, int) ([]domain.Product, error) {
	return []domain.Product{}, nil
}

func (s *stubAdminService) Users(context.Context) ([]domain.User, error) {
	return []domain.User{{ID: "u1", Email: "buyer@example.com", PasswordHash: "secret"}}, nil
}

func (s *stubAdminService) Revenue(_ context.Context, months int) ([]domain.RevenuePoint, error) {
	if s.revenueErr != nil {
		return nil, s.revenueErr
	}
	return []domain.RevenuePoint{{Month: "Mar 2026", Revenue: 70800, Orders: 1}}, nil
}

const validToken = "good-token"

type stubAuthService struct {
	loggedOut string
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*domain.User, string, error) {
	if email != "admin@legato.local" || password != "Legato123" {
		return nil, "", authsvc.ErrInvalidCredentials
	}
	return &domain.User{ID: "admin-1", Email: email, Role: domain.RoleAdmin}, validToken, nil
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token != validToken {
		return nil, authsvc.ErrInvalidToken
	}
	return &domain.User{ID: "admin-1", Email: "admin@legato.local", Role: domain.RoleAdmin}, nil
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.loggedOut = token
	return nil
}

func (s *stubAuthService) TokenTTLSeconds() int { return 43200 }

type stubPayments struct {
	err error
}

func (s stubPayments) Confirm(context.Context, domain.PaymentMethod, int64) error {
	return s.err
}

type pingStub struct {
	err error
}

func (p pingStub) Ping(context.Context) error { return p.err }

type testEnv struct {
	router   *gin.Engine
	products *stubProductService
	admin    *stubAdminService
	auth     *stubAuthService
	cart     *cart.Service
	payments *stubPayments
}

type envOption func(*Deps)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		products: &stubProductService{},
		admin:    &stubAdminService{},
		auth:     &stubAuthService{},
		cart:     cart.NewService(cart.NewMemoryStore(), newStubCatalog(), pricing.DefaultConfig(), cart.Limits{}, nil),
		payments: &stubPayments{},
	}
	deps := Deps{
		ProductSvc:     env.products,
		CartSvc:        env.cart,
		CheckoutSvc:    checkout.NewOrchestrator(env.cart, env.payments, pricing.DefaultConfig(), checkout.Options{}),
		WishlistSvc:    wishlist.NewService(wishlist.NewMemoryStore()),
		AdminSvc:       env.admin,
		AuthSvc:        env.auth,
		Database:       pingStub{},
		Services:       map[string]Pinger{"redis": pingStub{}},
		SampleFallback: true,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	router, err := buildRouter(logDiscard(), deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	env.router = router
	return env
}

var errBackend = errors.New("backend down")
