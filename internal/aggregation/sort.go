package aggregation

import (
	"sort"
	"strings"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/models"
)

type SortKey string

const (
	SortByDate SortKey = "date"
	SortByType SortKey = "type"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

type SortOptions struct {
	By    SortKey
	Order SortOrder
}

// ParseSort validates query values. Blank values default to newest first.
func ParseSort(by, order string) (SortOptions, error) {
	opts := SortOptions{By: SortByDate, Order: OrderDesc}

	switch SortKey(strings.ToLower(by)) {
	case "":
	case SortByDate:
		opts.By = SortByDate
	case SortByType:
		opts.By = SortByType
	default:
		return opts, errors.NewValidationError("sort_by", "sort_by must be date or type")
	}

	switch SortOrder(strings.ToLower(order)) {
	case "":
	case OrderAsc:
		opts.Order = OrderAsc
	case OrderDesc:
		opts.Order = OrderDesc
	default:
		return opts, errors.NewValidationError("order", "order must be asc or desc")
	}
	return opts, nil
}

// Sort returns a stably sorted copy; equal keys keep their source order in both directions.
func Sort(records []models.Application, opts SortOptions) []models.Application {
	out := append([]models.Application(nil), records...)

	var less func(a, b models.Application) bool
	switch opts.By {
	case SortByType:
		less = func(a, b models.Application) bool { return a.ServiceType < b.ServiceType }
	default:
		less = func(a, b models.Application) bool { return a.SubmittedDate.Before(b.SubmittedDate) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if opts.Order == OrderDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// Filter keeps records of serviceType; a blank type keeps everything.
func Filter(records []models.Application, serviceType string) []models.Application {
	if serviceType == "" {
		return append([]models.Application(nil), records...)
	}
	out := make([]models.Application, 0, len(records))
	for _, r := range records {
		if r.ServiceType == serviceType {
			out = append(out, r)
		}
	}
	return out
}
