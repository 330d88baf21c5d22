package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"legato/internal/domain"
)

const (
	dataSourceHeader = "X-Legato-Data-Source"
	dataSourceLive   = "live"
	dataSourceSample = "sample"
)

var sampleSubmitted = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

// sampleProducts is served by /api/products when the catalog is unreachable
// and sample fallback is enabled.
var sampleProducts = []domain.Product{
	{ID: "sample-1", Name: "Fender Stratocaster", Description: "Classic sunburst electric guitar", Price: 85000, Category: "Guitars", Condition: "good", SellerName: "Legato Demo", Status: domain.ProductApproved, SubmittedAt: sampleSubmitted},
	{ID: "sample-2", Name: "Yamaha P-45 Digital Piano", Description: "88 weighted keys", Price: 42000, Category: "Keyboards", Condition: "like-new", SellerName: "Legato Demo", Status: domain.ProductApproved, SubmittedAt: sampleSubmitted},
	{ID: "sample-3", Name: "Pearl Export Drum Kit", Description: "Five piece kit with hardware", Price: 65000, Category: "Drums", Condition: "fair", SellerName: "Legato Demo", Status: domain.ProductApproved, SubmittedAt: sampleSubmitted},
	{ID: "sample-4", Name: "Shure SM58", Description: "Dynamic vocal microphone", Price: 9500, Category: "Audio", Condition: "new", SellerName: "Legato Demo", Status: domain.ProductApproved, SubmittedAt: sampleSubmitted},
}

var sampleRevenue = []domain.RevenuePoint{
	{Month: "Jan 2026", Revenue: 245000, Orders: 12},
	{Month: "Feb 2026", Revenue: 312000, Orders: 15},
	{Month: "Mar 2026", Revenue: 287000, Orders: 14},
	{Month: "Apr 2026", Revenue: 356000, Orders: 18},
	{Month: "May 2026", Revenue: 401000, Orders: 21},
	{Month: "Jun 2026", Revenue: 389000, Orders: 19},
}

// filterSample applies the catalog filter to the sample set in memory.
func filterSample(f domain.ProductFilter) []domain.Product {
	out := []domain.Product{}
	for _, p := range sampleProducts {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Condition != "" && p.Condition != f.Condition {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

func markSource(c *gin.Context, source string) {
	c.Header(dataSourceHeader, source)
}
