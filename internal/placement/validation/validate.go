package validation

import (
	"os"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/placement/internal/placement/configuration"
)

const (
	CategoryResources  = "resources"
	CategoryProfiles   = "profiles"
	CategoryExecutor   = "executor"
	CategoryDatabases  = "databases"
	CategoryPartitions = "partitions"
)

// Environment is the part of the host that validation looks at.
type Environment struct {
	HostCpus func() int
	Stat     func(path string) (os.FileInfo, error)
}

func DefaultEnvironment() Environment {
	return Environment{
		HostCpus: runtime.NumCPU,
		Stat:     os.Stat,
	}
}

type category struct {
	name      string
	validator Validator[configuration.Configuration]
}

// ConfigValidator checks a whole configuration, one category at a time. Every category
// runs even when an earlier one fails.
type ConfigValidator struct {
	categories []category
}

func NewConfigValidator(env Environment) *ConfigValidator {
	return &ConfigValidator{
		categories: []category{
			{CategoryResources, resourcesValidator{}},
			{CategoryProfiles, profilesValidator{}},
			{CategoryExecutor, executorValidator{env: env}},
			{CategoryDatabases, databasesValidator{env: env}},
			{CategoryPartitions, partitionsValidator{}},
		},
	}
}

func (v *ConfigValidator) Validate(c configuration.Configuration) Report {
	categories := make([]CategoryReport, 0, len(v.categories))
	for _, cat := range v.categories {
		result := NewCompoundValidator(cat.validator).Validate(c)
		categories = append(categories, CategoryReport{
			Name:     cat.name,
			Errors:   result.Errors,
			Warnings: result.Warnings,
		})
	}
	report := NewReport(categories)
	log.WithFields(log.Fields{
		"status":   report.Status,
		"errors":   report.TotalErrors,
		"warnings": report.TotalWarnings,
	}).Debug("configuration validated")
	return report
}

// Validate checks c against the host this process runs on.
func Validate(c configuration.Configuration) Report {
	return NewConfigValidator(DefaultEnvironment()).Validate(c)
}

// CachedValidator validates a configuration once and hands out the same report afterwards.
// It is safe for concurrent use.
type CachedValidator struct {
	config    configuration.Configuration
	validator *ConfigValidator
	once      sync.Once
	report    Report
}

func NewCachedValidator(config configuration.Configuration, validator *ConfigValidator) *CachedValidator {
	if validator == nil {
		validator = NewConfigValidator(DefaultEnvironment())
	}
	return &CachedValidator{config: config, validator: validator}
}

func (c *CachedValidator) Report() Report {
	c.once.Do(func() {
		c.report = c.validator.Validate(c.config)
	})
	return c.report
}
