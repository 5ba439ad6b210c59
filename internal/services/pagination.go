package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	pkgerrors "github.com/yungbote/payerdesk/internal/pkg/errors"
	"github.com/yungbote/payerdesk/internal/platform/apierr"
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 10000
)

type Pagination struct {
	Page    int
	PerPage int
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.PerPage }

// Window returns the [start, end) slice bounds of this page within n items.
func (p Pagination) Window(n int) (int, int) {
	start := min(max(p.Offset(), 0), n)
	end := n
	if p.PerPage < n-start {
		end = start + p.PerPage
	}
	return start, end
}

// ParsePagination reads raw query values. Empty values take the defaults;
// anything else must be a positive integer, with per_page at most MaxPerPage
// and the page's last row offset representable as an int.
func ParsePagination(rawPage, rawPerPage string) (Pagination, error) {
	p := Pagination{Page: 1, PerPage: DefaultPerPage}
	var err error
	if p.Page, err = parsePositive("page", rawPage, 1); err != nil {
		return Pagination{}, err
	}
	if p.PerPage, err = parsePositive("per_page", rawPerPage, DefaultPerPage); err != nil {
		return Pagination{}, err
	}
	if p.PerPage > MaxPerPage {
		return Pagination{}, invalidPagination(fmt.Errorf("per_page must be at most %d", MaxPerPage))
	}
	if p.Page-1 > (math.MaxInt-p.PerPage)/p.PerPage {
		return Pagination{}, invalidPagination(fmt.Errorf("page %d is out of range for per_page %d", p.Page, p.PerPage))
	}
	return p, nil
}

func parsePositive(name, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, invalidPagination(fmt.Errorf("%s must be a positive integer, got %q", name, raw))
	}
	return n, nil
}

func invalidPagination(err error) error {
	return apierr.BadRequest("invalid_pagination", fmt.Errorf("%w: %w", pkgerrors.ErrInvalidArgument, err))
}
