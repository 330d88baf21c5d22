package seed

import (
	"context"
	"fmt"
	"io"
	"log"

	"legato/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type AdminProvisioner interface {
	EnsureAdmin(ctx context.Context, email, name, password string) (*domain.User, error)
}

// Options configures the admin account created alongside the demo catalog.
type Options struct {
	AdminEmail    string
	AdminPassword string
	Logger        *log.Logger
}

const demoSellerEmail = "demo-seller@legato.local"

// Catalog is the demo listing set. Two listings are left pending so the
// moderation queue has work in it.
var Catalog = []domain.Product{
	{Name: "Fender Player Stratocaster", Description: "Sunburst finish, maple neck, lightly played", Price: 85000, Category: "Guitars", Condition: "good", SellerName: "Arjun Mehta", Status: domain.ProductApproved},
	{Name: "Yamaha P-45 Digital Piano", Description: "88 weighted keys with sustain pedal", Price: 42000, Category: "Keyboards", Condition: "like-new", SellerName: "Priya Nair", Status: domain.ProductApproved},
	{Name: "Pearl Export Drum Kit", Description: "Five piece kit with cymbals and hardware", Price: 65000, Category: "Drums", Condition: "fair", SellerName: "Vikram Singh", Status: domain.ProductApproved},
	{Name: "Shure SM58", Description: "Dynamic vocal microphone", Price: 9500, Category: "Audio", Condition: "new", SellerName: "Legato Demo", Status: domain.ProductApproved},
	{Name: "Paakhi Sitar", Description: "Tun wood, full set of sympathetic strings", Price: 38000, Category: "Strings", Condition: "good", SellerName: "Meera Shah", Status: domain.ProductApproved},
	{Name: "Focusrite Scarlett 2i2", Description: "USB audio interface, third generation", Price: 14000, Category: "Audio", Condition: "like-new", SellerName: "Legato Demo", Status: domain.ProductApproved},
	{Name: "Hohner Special 20 Harmonica", Description: "Key of C", Price: 3500, Category: "Wind", Condition: "new", SellerName: "Kabir Das", Status: domain.ProductPending},
	{Name: "Korg Minilogue", Description: "Four voice analog synthesizer", Price: 48000, Category: "Keyboards", Condition: "good", SellerName: "Ananya Rao", Status: domain.ProductPending},
}

// Apply upserts the demo catalog and makes sure an admin account exists. It
// is idempotent.
func Apply(ctx context.Context, products ProductWriter, admins AdminProvisioner, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	for _, p := range Catalog {
		if p.SellerEmail == "" {
			p.SellerEmail = demoSellerEmail
		}
		saved, err := products.Upsert(ctx, p)
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
		logger.Printf("seed: product id=%s name=%q status=%s", saved.ID, saved.Name, saved.Status)
	}

	if opts.AdminEmail == "" {
		logger.Printf("seed: no admin email configured, skipping admin account")
		return nil
	}
	u, err := admins.EnsureAdmin(ctx, opts.AdminEmail, "Legato Admin", opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("ensure admin %s: %w", opts.AdminEmail, err)
	}
	logger.Printf("seed: admin id=%s email=%s", u.ID, u.Email)
	return nil
}
