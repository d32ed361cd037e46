// internal/workers/application/validate-application-data/handler.go
package validateapplicationdata

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"nagarik-sewa/internal/catalog"
	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/common/metrics"
	"nagarik-sewa/internal/common/validation"
)

const (
	TaskType = "validate-application-data"
)

var (
	schema     = validation.MustCompile(TaskType, inputSchema)
	whitespace = regexp.MustCompile(`\s+`)
)

// Catalog is the location and service data a draft is checked against.
type Catalog interface {
	Provinces() []string
	Districts(province string) []string
	Cities(district string) []string
	Wards(city string) []string
	IsServiceAvailable(city string) bool
	Service(serviceType string) (catalog.ServiceEntry, bool)
}

type Handler struct {
	config       *Config
	catalog      Catalog
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, cat Catalog, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		catalog:      cat,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job.Variables)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func parseInput(variables string) (*Input, error) {
	if err := schema.ValidateBytes([]byte(variables)).Err(); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewValidationError("", fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	data := normalize(input.ApplicationData)
	result := &validation.ValidationResult{}
	reject := func(field, code, message string) {
		result.Errors = append(result.Errors, validation.ValidationError{Field: field, Code: code, Message: message})
	}

	if data.FullName == "" {
		reject("fullName", "MISSING_REQUIRED", "Full name is required")
	}
	if data.Email != "" && !validation.ValidateEmail(data.Email) {
		reject("email", "INVALID_FORMAT", "Invalid email format")
	}
	if data.Phone != "" && !validation.ValidatePhone(data.Phone) {
		reject("phone", "INVALID_FORMAT", "Invalid phone number")
	}

	switch {
	case !contains(h.catalog.Provinces(), data.Province):
		reject("province", "INVALID_LOCATION", "Unknown province "+data.Province)
	case !contains(h.catalog.Districts(data.Province), data.District):
		reject("district", "INVALID_LOCATION", fmt.Sprintf("%s is not a district of %s", data.District, data.Province))
	case !contains(h.catalog.Cities(data.District), data.City):
		reject("city", "INVALID_LOCATION", fmt.Sprintf("%s is not a city of %s", data.City, data.District))
	}

	entry, ok := h.catalog.Service(data.ServiceType)
	switch {
	case !ok:
		reject("serviceType", string(errors.ErrCodeInvalidServiceType), "Unknown service type "+data.ServiceType)
	case !entry.NeedsWard:
		data.Ward = ""
	case data.Ward == "":
		reject("ward", string(errors.ErrCodeMissingWard), "Ward is required for "+data.ServiceType)
	default:
		if wards := h.catalog.Wards(data.City); len(wards) > 0 && !contains(wards, data.Ward) {
			reject("ward", "INVALID_LOCATION", fmt.Sprintf("%s is not a ward of %s", data.Ward, data.City))
		}
	}

	result.Valid = len(result.Errors) == 0
	h.logger.Info("validation completed", map[string]interface{}{
		"isValid":     result.Valid,
		"errorCount":  len(result.Errors),
		"serviceType": data.ServiceType,
	})
	if err := result.Err(); err != nil {
		return nil, err
	}

	return &Output{
		IsValid:          true,
		ValidatedData:    data,
		CityAvailable:    h.catalog.IsServiceAvailable(data.City),
		ValidationErrors: []validation.ValidationError{},
	}, nil
}

func normalize(d ApplicationData) ApplicationData {
	d.FullName = whitespace.ReplaceAllString(strings.TrimSpace(d.FullName), " ")
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.CitizenshipNumber = strings.TrimSpace(d.CitizenshipNumber)
	d.Province = strings.TrimSpace(d.Province)
	d.District = strings.TrimSpace(d.District)
	d.City = strings.TrimSpace(d.City)
	d.Ward = strings.TrimSpace(d.Ward)
	d.ServiceType = strings.TrimSpace(d.ServiceType)
	return d
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
