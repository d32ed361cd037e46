// Package applications coordinates submission, lifecycle transitions and office dashboards
// on top of routing, lifecycle, storage and the workflow publisher.
package applications

import (
	"context"
	"math/rand"
	"strings"

	"nagarik-sewa/internal/aggregation"
	"nagarik-sewa/internal/catalog"
	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/common/metrics"
	"nagarik-sewa/internal/lifecycle"
	"nagarik-sewa/internal/models"
	"nagarik-sewa/internal/routing"
	"nagarik-sewa/internal/store"
	"nagarik-sewa/internal/workflow"
)

// Repository persists application records. Get returns NOT_FOUND for unknown ids and
// UpdateTransition returns CONFLICT when the stored status no longer equals expected.
type Repository interface {
	Create(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, id string) (*models.Application, error)
	ListByOffice(ctx context.Context, office models.Office) ([]models.Application, error)
	ListByOffices(ctx context.Context, offices []models.Office) ([]models.Application, error)
	ListByUser(ctx context.Context, userID string) ([]models.Application, error)
	UpdateTransition(ctx context.Context, next *models.Application, expected models.ApplicationStatus, actorID, action string) error
	Delete(ctx context.Context, id, actorID string) error
}

// Officials lists non-monitor official accounts at the given levels.
type Officials interface {
	ListOfficials(ctx context.Context, levels []models.OfficeLevel) ([]models.Account, error)
}

// StatsCache stores computed dashboards. Misses and failures are both reported as misses.
type StatsCache interface {
	GetOffice(ctx context.Context, office models.Office) (*models.OfficeStats, bool)
	SetOffice(ctx context.Context, office models.Office, stats *models.OfficeStats)
	GetHierarchy(ctx context.Context, monitorID string) (*models.HierarchyStats, bool)
	SetHierarchy(ctx context.Context, monitorID string, stats *models.HierarchyStats)
	InvalidateOffice(ctx context.Context, office models.Office)
}

type SearchIndex interface {
	Index(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, office models.Office, query string, size int) ([]models.Application, error)
}

// Catalog is the part of the reference data the service reads.
type Catalog interface {
	Service(serviceType string) (catalog.ServiceEntry, bool)
	Stages(serviceType string) []catalog.Stage
}

type Config struct {
	EstimatedDaysMin int
	EstimatedDaysMax int
}

// Dependencies groups collaborators. Cache, Search and Workflow are optional.
type Dependencies struct {
	Repository Repository
	Officials  Officials
	Catalog    Catalog
	Cache      StatsCache
	Search     SearchIndex
	Workflow   workflow.Publisher
	Machine    *lifecycle.Machine
}

type Service struct {
	config    Config
	repo      Repository
	officials Officials
	catalog   Catalog
	resolver  *routing.Resolver
	cache     StatsCache
	search    SearchIndex
	workflow  workflow.Publisher
	machine   *lifecycle.Machine
	logger    logger.Logger
	days      func(min, max int) int
}

func NewService(cfg Config, deps Dependencies, log logger.Logger) *Service {
	if cfg.EstimatedDaysMin <= 0 {
		cfg.EstimatedDaysMin = 3
	}
	if cfg.EstimatedDaysMax < cfg.EstimatedDaysMin {
		cfg.EstimatedDaysMax = cfg.EstimatedDaysMin
	}
	machine := deps.Machine
	if machine == nil {
		machine = lifecycle.NewMachine()
	}
	return &Service{
		config:    cfg,
		repo:      deps.Repository,
		officials: deps.Officials,
		catalog:   deps.Catalog,
		resolver:  routing.NewResolver(deps.Catalog),
		cache:     deps.Cache,
		search:    deps.Search,
		workflow:  deps.Workflow,
		machine:   machine,
		logger:    logger.ForComponent(log, "applications"),
		days: func(min, max int) int {
			return min + rand.Intn(max-min+1)
		},
	}
}

// Submit routes draft to its office and stores it as a new Submitted record owned by the caller.
func (s *Service) Submit(ctx context.Context, caller models.Role, draft models.Application) (*models.Application, error) {
	citizen, ok := caller.(models.Citizen)
	if !ok {
		return nil, errors.NewForbiddenError("only citizens can submit applications")
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	office, err := s.resolver.Resolve(draft.ServiceType, draft.Ward)
	if err != nil {
		return nil, err
	}
	if entry, _ := s.catalog.Service(draft.ServiceType); !entry.NeedsWard {
		draft.Ward = ""
	} else {
		draft.Ward = strings.TrimSpace(draft.Ward)
	}

	app := s.machine.Submit(draft, office, s.days(s.config.EstimatedDaysMin, s.config.EstimatedDaysMax))
	app.UserID = citizen.AccountID
	if err := s.repo.Create(ctx, &app); err != nil {
		return nil, err
	}

	metrics.ApplicationsSubmitted.WithLabelValues(app.ServiceType, string(app.TargetOfficeLevel)).Inc()
	s.logger.Info("application submitted", map[string]interface{}{
		"applicationId": app.ID,
		"serviceType":   app.ServiceType,
		"office":        app.TargetOffice().ID(),
	})

	s.afterWrite(ctx, &app)
	if s.workflow != nil {
		if err := s.workflow.ApplicationSubmitted(ctx, app); err != nil {
			s.logger.Warn("workflow start failed", map[string]interface{}{
				"applicationId": app.ID,
				"error":         err.Error(),
			})
		}
	}
	return &app, nil
}

func validateDraft(draft models.Application) error {
	required := []struct{ field, value string }{
		{"full_name", draft.FullName},
		{"service_type", draft.ServiceType},
		{"province", draft.Province},
		{"district", draft.District},
		{"city", draft.City},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.NewValidationError(r.field, r.field+" is required")
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Application, error) {
	return s.repo.Get(ctx, id)
}

// Track returns the record's processing stages with the active one marked.
func (s *Service) Track(ctx context.Context, id string) (*lifecycle.Tracking, error) {
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tracking := lifecycle.Track(*app, s.catalog.Stages(app.ServiceType))
	return &tracking, nil
}

// ListMine returns the caller's own applications, newest first.
func (s *Service) ListMine(ctx context.Context, caller models.Role) ([]models.Application, error) {
	citizen, ok := caller.(models.Citizen)
	if !ok {
		return nil, errors.NewForbiddenError("only citizens have submitted applications")
	}
	records, err := s.repo.ListByUser(ctx, citizen.AccountID)
	if err != nil {
		return nil, err
	}
	return aggregation.Sort(records, aggregation.SortOptions{By: aggregation.SortByDate, Order: aggregation.OrderDesc}), nil
}

// Transition applies the lifecycle action encoded by patch. The write is guarded by the
// status read here, so a concurrent change surfaces as CONFLICT.
func (s *Service) Transition(ctx context.Context, actor models.Role, id string, patch models.ApplicationPatch) (*models.Application, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Authorize(*current, actor); err != nil {
		return nil, err
	}

	cmd, err := lifecycle.FromPatch(*current, patch)
	if err != nil {
		return nil, err
	}
	next, err := s.machine.Apply(*current, actor, cmd)
	if err != nil {
		metrics.ApplicationTransitions.WithLabelValues(string(cmd.Action), string(errors.CodeOf(err))).Inc()
		return nil, err
	}
	if err := s.repo.UpdateTransition(ctx, &next, current.Status, actor.ID(), string(cmd.Action)); err != nil {
		metrics.ApplicationTransitions.WithLabelValues(string(cmd.Action), string(errors.CodeOf(err))).Inc()
		return nil, err
	}

	metrics.ApplicationTransitions.WithLabelValues(string(cmd.Action), "ok").Inc()
	s.logger.Info("application transitioned", map[string]interface{}{
		"applicationId": next.ID,
		"action":        cmd.Action,
		"from":          current.Status,
		"to":            next.Status,
		"actorId":       actor.ID(),
	})

	s.afterWrite(ctx, &next)
	if s.workflow != nil {
		if err := s.workflow.StatusChanged(ctx, next, string(cmd.Action)); err != nil {
			s.logger.Warn("status publish failed", map[string]interface{}{
				"applicationId": next.ID,
				"error":         err.Error(),
			})
		}
	}
	return &next, nil
}

// Delete removes a record. Only an official of its target office may do so.
func (s *Service) Delete(ctx context.Context, actor models.Role, id string) error {
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.Authorize(*app, actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, actor.ID()); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.InvalidateOffice(ctx, app.TargetOffice())
	}
	if s.search != nil {
		if err := s.search.Delete(ctx, id); err != nil {
			s.logger.Warn("search delete failed", map[string]interface{}{"applicationId": id, "error": err.Error()})
		}
	}
	s.logger.Info("application deleted", map[string]interface{}{"applicationId": id, "actorId": actor.ID()})
	return nil
}

// afterWrite drops cached dashboards for the record's office and reindexes it.
func (s *Service) afterWrite(ctx context.Context, app *models.Application) {
	if s.cache != nil {
		s.cache.InvalidateOffice(ctx, app.TargetOffice())
	}
	if s.search != nil {
		if err := s.search.Index(ctx, app); err != nil {
			s.logger.Warn("search index failed", map[string]interface{}{"applicationId": app.ID, "error": err.Error()})
		}
	}
}

func officialOffice(actor models.Role) (models.Office, error) {
	official, ok := actor.(models.Official)
	if !ok {
		return models.Office{}, errors.NewForbiddenError("office views are limited to officials")
	}
	return official.Office, nil
}

// OfficeApplications lists the caller's office records, optionally filtered by service type.
func (s *Service) OfficeApplications(ctx context.Context, actor models.Role, opts aggregation.SortOptions, serviceType string) ([]models.Application, error) {
	office, err := officialOffice(actor)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListByOffice(ctx, office)
	if err != nil {
		return nil, err
	}
	return aggregation.Sort(aggregation.Filter(records, serviceType), opts), nil
}

// OfficeStats returns the dashboard for the caller's office, served from cache when fresh.
func (s *Service) OfficeStats(ctx context.Context, actor models.Role) (*models.OfficeStats, error) {
	office, err := officialOffice(actor)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if stats, ok := s.cache.GetOffice(ctx, office); ok {
			return stats, nil
		}
	}

	records, err := s.repo.ListByOffice(ctx, office)
	if err != nil {
		return nil, err
	}
	stats := aggregation.ForOffice(office, records)
	if s.cache != nil {
		s.cache.SetOffice(ctx, office, &stats)
	}
	return &stats, nil
}

// HierarchyStats aggregates every office the monitor observes.
func (s *Service) HierarchyStats(ctx context.Context, actor models.Role) (*models.HierarchyStats, error) {
	monitor, ok := actor.(models.Monitor)
	if !ok {
		return nil, errors.NewForbiddenError("hierarchy stats are limited to monitor accounts")
	}
	if s.cache != nil {
		if stats, ok := s.cache.GetHierarchy(ctx, monitor.AccountID); ok {
			return stats, nil
		}
	}

	accounts, err := s.officials.ListOfficials(ctx, monitor.ObservedLevels())
	if err != nil {
		return nil, err
	}
	offices := store.SubordinateOffices(accounts)

	var records []models.Application
	if len(offices) > 0 {
		records, err = s.repo.ListByOffices(ctx, offices)
		if err != nil {
			return nil, err
		}
	}

	stats := aggregation.Hierarchy(monitor.Office, offices, records)
	if s.cache != nil {
		s.cache.SetHierarchy(ctx, monitor.AccountID, &stats)
	}
	return &stats, nil
}

// Search runs a full-text query over the caller's office. Without an index it falls
// back to substring matching on the office records.
func (s *Service) Search(ctx context.Context, actor models.Role, query string, size int) ([]models.Application, error) {
	office, err := officialOffice(actor)
	if err != nil {
		return nil, err
	}
	if s.search != nil {
		return s.search.Search(ctx, office, query, size)
	}

	records, err := s.repo.ListByOffice(ctx, office)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Application, 0, len(records))
	for _, r := range records {
		if q == "" || matches(r, q) {
			out = append(out, r)
		}
		if size > 0 && len(out) == size {
			break
		}
	}
	return out, nil
}

func matches(app models.Application, q string) bool {
	for _, field := range []string{app.ID, app.FullName, app.ServiceType, app.CitizenshipNumber, app.Description} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
