package service

import (
	"context"
	"fmt"

	"pharmacy-pos/internal/models"
	"pharmacy-pos/internal/pricing"
	"pharmacy-pos/internal/staging"
	"pharmacy-pos/internal/tenant"
	"pharmacy-pos/internal/util"

	"go.uber.org/zap"
)

// CartService edits the staged cart of a pharmacy. Every edit reads the
// whole cart, changes it in memory and writes the whole cart back.
type CartService struct {
	backend staging.Backend
	logger  *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(backend staging.Backend) *CartService {
	return &CartService{
		backend: backend,
		logger:  util.GetLogger(),
	}
}

// Get returns the staged cart. A missing or unreadable payload is an empty cart.
func (s *CartService) Get(ctx context.Context, tenantName string) ([]models.CartLine, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Get")
	defer span.End()

	key := tenant.CartKey(tenantName)
	lines, malformed, err := staging.LoadList[models.CartLine](ctx, s.backend, key)
	if err != nil {
		return nil, err
	}
	if malformed {
		util.MalformedStagingTotal.WithLabelValues("cart").Inc()
		s.logger.Warn("Cart payload is malformed, treating as empty", zap.String("key", key))
	}
	return lines, nil
}

// Put replaces the staged cart
func (s *CartService) Put(ctx context.Context, tenantName string, lines []models.CartLine) error {
	ctx, span := util.StartSpan(ctx, "CartService.Put")
	defer span.End()

	if err := ValidateLines(lines); err != nil {
		return err
	}
	return s.write(ctx, tenantName, "put", lines)
}

// Clear drops the staged cart
func (s *CartService) Clear(ctx context.Context, tenantName string) error {
	ctx, span := util.StartSpan(ctx, "CartService.Clear")
	defer span.End()

	batch := staging.NewBatch()
	batch.Remove(tenant.CartKey(tenantName))
	if err := s.backend.Apply(ctx, batch); err != nil {
		return err
	}
	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	return nil
}

// AddLine appends a line to the cart
func (s *CartService) AddLine(ctx context.Context, tenantName string, line models.CartLine) ([]models.CartLine, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddLine")
	defer span.End()

	if err := ValidateLine(line); err != nil {
		return nil, err
	}

	return s.mutate(ctx, tenantName, "add", func(lines []models.CartLine) ([]models.CartLine, error) {
		return append(lines, line), nil
	})
}

// SetQuantity changes the quantity of the index-th line of kind
func (s *CartService) SetQuantity(ctx context.Context, tenantName string, kind models.Kind, index int, qty models.Quantity) ([]models.CartLine, error) {
	ctx, span := util.StartSpan(ctx, "CartService.SetQuantity")
	defer span.End()

	if _, err := qty.Float64(); err != nil {
		return nil, err
	}

	return s.mutate(ctx, tenantName, "quantity", func(lines []models.CartLine) ([]models.CartLine, error) {
		i, err := lineIndex(lines, kind, index)
		if err != nil {
			return nil, err
		}
		lines[i].Quantity = qty
		return lines, nil
	})
}

// LineEdit holds the fields EditLine changes; nil fields are kept
type LineEdit struct {
	Quantity *models.Quantity
	Discount *float64
}

// EditLine applies a quantity and discount change to the index-th line of
// kind in a single write
func (s *CartService) EditLine(ctx context.Context, tenantName string, kind models.Kind, index int, edit LineEdit) ([]models.CartLine, error) {
	ctx, span := util.StartSpan(ctx, "CartService.EditLine")
	defer span.End()

	if edit.Quantity != nil {
		if _, err := edit.Quantity.Float64(); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, tenantName, "edit", func(lines []models.CartLine) ([]models.CartLine, error) {
		i, err := lineIndex(lines, kind, index)
		if err != nil {
			return nil, err
		}
		if edit.Quantity != nil {
			lines[i].Quantity = *edit.Quantity
		}
		if edit.Discount != nil {
			lines[i].Discount = *edit.Discount
		}
		return lines, nil
	})
}

// SetDiscount changes the discount percent of the index-th line of kind
func (s *CartService) SetDiscount(ctx context.Context, tenantName string, kind models.Kind, index int, discount float64) ([]models.CartLine, error) {
	ctx, span := util.StartSpan(ctx, "CartService.SetDiscount")
	defer span.End()

	return s.mutate(ctx, tenantName, "discount", func(lines []models.CartLine) ([]models.CartLine, error) {
		i, err := lineIndex(lines, kind, index)
		if err != nil {
			return nil, err
		}
		lines[i].Discount = discount
		return lines, nil
	})
}

// RemoveLine drops the index-th line of kind
func (s *CartService) RemoveLine(ctx context.Context, tenantName string, kind models.Kind, index int) ([]models.CartLine, error) {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveLine")
	defer span.End()

	return s.mutate(ctx, tenantName, "remove", func(lines []models.CartLine) ([]models.CartLine, error) {
		i, err := lineIndex(lines, kind, index)
		if err != nil {
			return nil, err
		}
		return append(lines[:i], lines[i+1:]...), nil
	})
}

// Summary prices the staged cart
func (s *CartService) Summary(ctx context.Context, tenantName string, gstRate float64) (pricing.Summary, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Summary")
	defer span.End()

	lines, err := s.Get(ctx, tenantName)
	if err != nil {
		return pricing.Summary{}, err
	}
	return pricing.Summarize(lines, gstRate)
}

func (s *CartService) mutate(ctx context.Context, tenantName, op string, fn func([]models.CartLine) ([]models.CartLine, error)) ([]models.CartLine, error) {
	lines, err := s.Get(ctx, tenantName)
	if err != nil {
		return nil, err
	}

	lines, err = fn(lines)
	if err != nil {
		return nil, err
	}

	if err := s.write(ctx, tenantName, op, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *CartService) write(ctx context.Context, tenantName, op string, lines []models.CartLine) error {
	if lines == nil {
		lines = []models.CartLine{}
	}

	batch := staging.NewBatch()
	if err := batch.Put(tenant.CartKey(tenantName), lines); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	if err := s.backend.Apply(ctx, batch); err != nil {
		return err
	}

	util.CartMutationsTotal.WithLabelValues(op).Inc()
	return nil
}

// ValidateLine rejects lines the pricing engine could not total
func ValidateLine(line models.CartLine) error {
	if _, err := models.ParseKind(string(line.Type)); err != nil {
		return err
	}
	_, err := line.Quantity.Float64()
	return err
}

// ValidateLines checks every line, stopping at the first bad one
func ValidateLines(lines []models.CartLine) error {
	for i, line := range lines {
		if err := ValidateLine(line); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
	}
	return nil
}

// lineIndex maps a position among the lines of kind to a position in lines
func lineIndex(lines []models.CartLine, kind models.Kind, index int) (int, error) {
	seen := 0
	for i, line := range lines {
		if line.Type != kind {
			continue
		}
		if seen == index {
			return i, nil
		}
		seen++
	}
	return -1, fmt.Errorf("%w: %s line %d", models.ErrNotFound, kind, index)
}
