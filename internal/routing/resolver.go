// Package routing assigns an application to the office that processes its service type.
package routing

import (
	"strings"

	"nagarik-sewa/internal/catalog"
	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/models"
)

// ServiceLookup is the part of the catalog the resolver needs.
type ServiceLookup interface {
	Service(serviceType string) (catalog.ServiceEntry, bool)
}

type Resolver struct {
	services ServiceLookup
}

func NewResolver(services ServiceLookup) *Resolver {
	return &Resolver{services: services}
}

// Resolve returns the target office for serviceType. Ward-level services are named
// "<ward> - <office>"; a ward given for any other service is ignored.
func (r *Resolver) Resolve(serviceType, ward string) (models.OfficeAssignment, error) {
	entry, ok := r.services.Service(serviceType)
	if !ok {
		return models.OfficeAssignment{}, errors.NewInvalidServiceTypeError(serviceType)
	}

	name := entry.OfficeName
	if entry.NeedsWard {
		ward = strings.TrimSpace(ward)
		if ward == "" {
			return models.OfficeAssignment{}, errors.NewMissingWardError(serviceType)
		}
		name = ward + " - " + entry.OfficeName
	}

	return models.OfficeAssignment{Level: entry.Level, Name: name}, nil
}
