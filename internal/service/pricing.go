package service

import (
	"vendoprint/internal/config"
	"vendoprint/internal/domain"
)

// Pricer computes print costs from the configured per-page prices.
type Pricer struct {
	perPageBW    float64
	perPageColor float64
}

// NewPricer creates a Pricer from printer configuration.
func NewPricer(cfg config.PrinterConfig) *Pricer {
	return &Pricer{
		perPageBW:    cfg.PricePerPageBW,
		perPageColor: cfg.PricePerPageC,
	}
}

// PerPage returns the page price for the given color mode.
func (p *Pricer) PerPage(mode domain.ColorMode) float64 {
	if mode == domain.ColorModeColor {
		return p.perPageColor
	}
	return p.perPageBW
}

// Quote is the result of a cost calculation.
type Quote struct {
	Pages        int     // billable pages, range x copies
	PricePerPage float64
	Total        float64
}

// Cost computes the total price for printing the given job options.
// totalPages is the page count of the uploaded document.
func (p *Pricer) Cost(totalPages, copies int, pageRange *domain.PageRange, mode domain.ColorMode) (Quote, error) {
	if copies < 1 {
		return Quote{}, ErrInvalidCopies
	}

	pages := totalPages
	if pageRange != nil {
		if pageRange.Start < 1 || pageRange.End < pageRange.Start || pageRange.End > totalPages {
			return Quote{}, ErrInvalidPageRange
		}
		pages = pageRange.End - pageRange.Start + 1
	}

	perPage := p.PerPage(mode)
	billable := pages * copies
	return Quote{
		Pages:        billable,
		PricePerPage: perPage,
		Total:        float64(billable) * perPage,
	}, nil
}
