package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/contract-planner/internal/costs"
	"github.com/nurpe/contract-planner/internal/model"
	"github.com/nurpe/contract-planner/internal/store"
)

const notEditing = -1

// ContractService owns the in-memory document. Every mutation is applied to
// a copy, persisted, and only then made current, so a failed call leaves the
// document as it was.
type ContractService struct {
	mu      sync.Mutex
	store   store.Store
	doc     *model.Document
	editing int

	excel ExcelGenerator
	pdf   PDFGenerator
	log   zerolog.Logger
	now   func() time.Time
}

type Option func(*ContractService)

// WithClock replaces time.Now for export file names.
func WithClock(now func() time.Time) Option {
	return func(s *ContractService) { s.now = now }
}

// NewContractService loads the document from st.
func NewContractService(ctx context.Context, st store.Store, excel ExcelGenerator, pdf PDFGenerator, log zerolog.Logger, opts ...Option) (*ContractService, error) {
	doc, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	s := &ContractService{
		store:   st,
		doc:     doc,
		editing: notEditing,
		excel:   excel,
		pdf:     pdf,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Document returns a copy of the current document.
func (s *ContractService) Document() *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Reload replaces the in-memory document with the stored one.
func (s *ContractService) Reload(ctx context.Context) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.editing = notEditing
	return nil
}

func (s *ContractService) mutate(ctx context.Context, op string, apply func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(ctx, op, apply)
}

func (s *ContractService) mutateLocked(ctx context.Context, op string, apply func(doc *model.Document) error) error {
	next := s.doc.Clone()
	if err := apply(next); err != nil {
		return err
	}
	if err := s.store.Save(ctx, next); err != nil {
		s.log.Error().Err(err).Str("op", op).Msg("save document failed")
		return fmt.Errorf("save document: %w", err)
	}
	s.doc = next
	s.log.Debug().Str("op", op).Msg("document saved")
	return nil
}

// UpdateContract sets any subset of the contract fields.
func (s *ContractService) UpdateContract(ctx context.Context, fields map[string]string) error {
	for key := range fields {
		if _, ok := model.LookupContractField(key); !ok {
			return fmt.Errorf("%w: unknown contract field %q", ErrInvalidInput, key)
		}
	}
	return s.mutate(ctx, "update_contract", func(doc *model.Document) error {
		for key, value := range fields {
			field, _ := model.LookupContractField(key)
			*field.Value(doc) = value
		}
		return nil
	})
}

func (s *ContractService) Balance() costs.Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return costs.ComputeBalance(s.doc)
}

type PricingInput struct {
	Services      string
	OpexMetro     string
	CapexMetro    string
	OpexInterior  string
	CapexInterior string
}

// UpdatePricing replaces the catalog and the four price lists. Quantity rows
// are carried over to the new catalog by service name.
func (s *ContractService) UpdatePricing(ctx context.Context, input PricingInput) error {
	catalog := model.ParseServiceCatalog(input.Services)
	if len(catalog) == 0 {
		return fmt.Errorf("%w: service catalog is empty", ErrInvalidInput)
	}
	for _, name := range catalog {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: service catalog has a blank entry", ErrInvalidInput)
		}
	}
	for _, prices := range []string{input.OpexMetro, input.CapexMetro, input.OpexInterior, input.CapexInterior} {
		if err := validatePrices(prices); err != nil {
			return err
		}
	}
	return s.mutate(ctx, "update_pricing", func(doc *model.Document) error {
		if catalog.String() != doc.Services.String() {
			for name, row := range doc.Quantities {
				doc.Quantities[name] = row.Reindex(doc.Services, catalog)
			}
		}
		doc.Services = catalog
		doc.OpexMetro = model.PriceList(input.OpexMetro)
		doc.CapexMetro = model.PriceList(input.CapexMetro)
		doc.OpexInterior = model.PriceList(input.OpexInterior)
		doc.CapexInterior = model.PriceList(input.CapexInterior)
		return nil
	})
}

// SetQuantity stores the typed quantity of one service for one city.
func (s *ContractService) SetQuantity(ctx context.Context, cityName string, index int, value string) error {
	value = strings.TrimSpace(value)
	if value != "" {
		q, ok := model.ParseBounded(value, model.MaxQuantity)
		if !ok || q < 0 {
			return fmt.Errorf("%w: quantity must be a number between 0 and %g", ErrInvalidInput, model.MaxQuantity)
		}
	}
	return s.mutate(ctx, "set_quantity", func(doc *model.Document) error {
		pos := doc.CityIndex(cityName)
		if pos < 0 {
			return fmt.Errorf("%w: city %q", ErrNotFound, cityName)
		}
		if index < 0 || index >= len(doc.Services) {
			return fmt.Errorf("%w: service index %d out of range", ErrInvalidInput, index)
		}
		name := doc.Cities[pos].Name
		row := doc.Quantities[name]
		for len(row) < len(doc.Services) {
			row = append(row, "")
		}
		row[index] = value
		doc.Quantities[name] = row
		return nil
	})
}

// validatePrices rejects entries that read as numbers the aggregator cannot
// use. Text that is not a number at all is kept and priced at zero.
func validatePrices(list string) error {
	if list == "" {
		return nil
	}
	for _, entry := range strings.Split(list, ",") {
		if _, err := strconv.ParseFloat(strings.TrimSpace(entry), 64); err != nil {
			continue
		}
		if _, ok := model.ParseBounded(entry, model.MaxPrice); !ok {
			return fmt.Errorf("%w: price %q must be finite and at most %g", ErrInvalidInput, strings.TrimSpace(entry), model.MaxPrice)
		}
	}
	return nil
}

// SetConfigValue stores one configuration value for one city.
func (s *ContractService) SetConfigValue(ctx context.Context, keyID, cityName, value string) error {
	key, ok := model.LookupConfigKey(keyID)
	if !ok {
		return fmt.Errorf("%w: unknown configuration key %q", ErrInvalidInput, keyID)
	}
	return s.mutate(ctx, "set_config", func(doc *model.Document) error {
		pos := doc.CityIndex(cityName)
		if pos < 0 {
			return fmt.Errorf("%w: city %q", ErrNotFound, cityName)
		}
		(*key.Values(doc))[doc.Cities[pos].Name] = value
		return nil
	})
}

// AggregateCosts recomputes the OPEX/CAPEX totals from the current document.
func (s *ContractService) AggregateCosts() costs.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return costs.AggregateTotals(s.doc)
}

func (s *ContractService) Breakdown() costs.Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return costs.Aggregate(s.doc)
}
