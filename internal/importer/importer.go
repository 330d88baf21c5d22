package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"legato/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Columns every listing file must carry. imageUrl, sellerEmail and status are optional.
var requiredColumns = []string{"name", "price", "category", "condition", "sellerName"}

// Result summarises one import run.
type Result struct {
	Imported int
	Skipped  int
}

// CSVImporter reads listing CSV files and inserts or updates products keyed by
// seller email and name.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	logger      *log.Logger
	skipInvalid bool
}

func NewCSVImporter(r io.Reader, repo ProductWriter, logger *log.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		logger:      logger,
	}
}

// SkipInvalid makes Run log and skip rows that fail validation instead of
// stopping at the first one.
func (i *CSVImporter) SkipInvalid(skip bool) *CSVImporter {
	i.skipInvalid = skip
	return i
}

// Run parses CSV rows and upserts one listing per row.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return res, fmt.Errorf("missing column %q", col)
		}
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			if i.skipInvalid {
				i.logger.Printf("importer: skip line=%d error=%v", line, err)
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("line %d: %w", line, err)
		}

		if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
			return res, fmt.Errorf("upsert product %q (line %d): %w", p.Name, line, err)
		}
		res.Imported++
	}

	i.logger.Printf("importer: imported=%d skipped=%d", res.Imported, res.Skipped)
	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	p := &domain.Product{
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		Category:    pick(record, index, "category"),
		Condition:   strings.ToLower(pick(record, index, "condition")),
		ImageURL:    pick(record, index, "imageUrl"),
		SellerName:  pick(record, index, "sellerName"),
		SellerEmail: strings.ToLower(pick(record, index, "sellerEmail")),
		Status:      domain.ProductApproved,
	}

	switch {
	case p.Name == "":
		return nil, domain.NewValidationError("name", "name is required")
	case p.Category == "":
		return nil, domain.NewValidationError("category", "category is required")
	case !domain.ValidCondition(p.Condition):
		return nil, domain.NewValidationError("condition", fmt.Sprintf("unknown condition %q", p.Condition))
	case p.SellerName == "":
		return nil, domain.NewValidationError("sellerName", "sellerName is required")
	}

	price, err := strconv.ParseInt(pick(record, index, "price"), 10, 64)
	if err != nil || price <= 0 {
		return nil, domain.NewValidationError("price", "price must be a positive whole number")
	}
	if price > domain.MaxPrice {
		return nil, domain.NewValidationError("price", fmt.Sprintf("price must not exceed %d", domain.MaxPrice))
	}
	p.Price = price

	if raw := strings.ToLower(pick(record, index, "status")); raw != "" {
		switch s := domain.ProductStatus(raw); s {
		case domain.ProductPending, domain.ProductApproved, domain.ProductRejected:
			p.Status = s
		default:
			return nil, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", raw))
		}
	}
	return p, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
