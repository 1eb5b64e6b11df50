// Package placement decides how many resources a job requests, which partition it runs on
// and which options it is submitted with.
package placement

import (
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/placement/internal/placement/configuration"
	"github.com/armadaproject/placement/internal/placement/metrics"
	"github.com/armadaproject/placement/internal/placement/model"
	"github.com/armadaproject/placement/internal/placement/partition"
	"github.com/armadaproject/placement/internal/placement/resourceclass"
	"github.com/armadaproject/placement/internal/placement/scaling"
	"github.com/armadaproject/placement/internal/placement/submission"
	"github.com/armadaproject/placement/internal/placement/validation"
)

// Job describes one attempt of one unit of work. Zero Memory, WallClock and Cpus mean the
// value is computed from the job's resource class.
type Job struct {
	Class        resourceclass.Class
	Attempt      int
	Memory       int64
	WallClock    time.Duration
	Cpus         int
	ExtraOptions []string
}

type options struct {
	availability partition.AvailabilityProvider
	metrics      *metrics.Metrics
	environment  validation.Environment
}

type Option func(*options)

// WithAvailability replaces the availability derived from static configuration.
func WithAvailability(availability partition.AvailabilityProvider) Option {
	return func(o *options) {
		o.availability = availability
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithEnvironment sets the host environment configuration is validated against.
func WithEnvironment(env validation.Environment) Option {
	return func(o *options) {
		o.environment = env
	}
}

func newOptions(opts []Option) options {
	o := options{environment: validation.DefaultEnvironment()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = metrics.Get()
	}
	return o
}

// Engine composes scaling, partition selection, fallback resolution and option building.
// It is immutable once built and safe for concurrent use.
type Engine struct {
	scaler   *scaling.Scaler
	selector partition.Selector
	resolver partition.Resolver
	builder  submission.Builder
	metrics  *metrics.Metrics
	report   *validation.CachedValidator
}

// NewEngine builds an engine from config. Every value that fails to parse is reported.
func NewEngine(config configuration.Configuration, opts ...Option) (*Engine, error) {
	o := newOptions(opts)

	var result *multierror.Error
	policy, err := scaling.PolicyFromConfig(config.Scaling)
	if err != nil {
		result = multierror.Append(result, err)
	}
	thresholds, err := partition.ThresholdsFromConfig(config.Partitions.Thresholds)
	if err != nil {
		result = multierror.Append(result, err)
	}
	submissionOptions, err := submission.OptionsFromConfig(config.Submission)
	if err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.WithMessage(err, "cannot build placement engine")
	}

	p := config.Partitions
	catalog := partition.NewCatalog(p.Partitions, p.DefaultPartition)
	availability := o.availability
	if availability == nil {
		availability = partition.NewStaticAvailability(catalog, p.UnavailablePartitions)
	}
	return &Engine{
		scaler:   scaling.NewScaler(policy),
		selector: partition.NewSelector(p.Strategy, catalog, thresholds, p.CustomMapping),
		resolver: partition.NewResolver(catalog, p.Fallbacks, availability, config.Validation.EnablePartitionValidation),
		builder:  submission.NewBuilder(config.Executor.Name, submissionOptions),
		metrics:  o.metrics,
		report:   validation.NewCachedValidator(config, validation.NewConfigValidator(o.environment)),
	}, nil
}

// Report returns the validation report of the configuration the engine was built from.
// Validation runs at most once per engine.
func (e *Engine) Report() validation.Report {
	return e.report.Report()
}

// Start validates config and builds an engine from it. The report is always returned; the
// engine is nil and the error an ErrConfiguration when validation failed.
func Start(config configuration.Configuration, opts ...Option) (*Engine, validation.Report, error) {
	o := newOptions(opts)
	cached := validation.NewCachedValidator(config, validation.NewConfigValidator(o.environment))
	report := cached.Report()
	for _, category := range report.Categories {
		o.metrics.RecordValidationProblems(category.Name, metrics.SeverityError, len(category.Errors))
		o.metrics.RecordValidationProblems(category.Name, metrics.SeverityWarning, len(category.Warnings))
	}
	for _, warning := range report.Warnings() {
		log.Warn(warning)
	}
	if !report.Passed() {
		return nil, report, report.Err()
	}
	engine, err := NewEngine(config, opts...)
	if err != nil {
		return nil, report, err
	}
	engine.report = cached
	return engine, report, nil
}

// Decide returns the decision for one attempt of job. Every job gets a decision: unknown
// classes use the default resources and compute routing.
func (e *Engine) Decide(job Job) Decision {
	request, hints := e.scaler.ScaleWithOverrides(job.Class, job.Attempt, model.ResourceRequest{
		Cpus:        job.Cpus,
		MemoryBytes: job.Memory,
		WallClock:   job.WallClock,
	})
	selected := e.selector.Select(job.Class, request)
	placement := e.resolver.Resolve(selected)

	decision := Decision{
		Partition:         placement.Partition,
		Role:              placement.Role,
		SelectedRole:      selected,
		FellBack:          placement.FellBack,
		Request:           request,
		SubmissionOptions: e.builder.Build(job.Class, placement, request, job.ExtraOptions),
	}
	for _, hint := range hints {
		decision.Hints = append(decision.Hints, hint.String())
	}

	e.metrics.RecordDecision(placement)
	e.metrics.RecordHints(hints)
	if placement.FellBack {
		e.metrics.RecordFallback(selected, placement)
	}
	log.WithFields(log.Fields{
		"class":     job.Class.Label,
		"attempt":   job.Attempt,
		"selected":  selected,
		"partition": placement.Partition,
		"request":   request.String(),
	}).Debug("placement decided")
	return decision
}
