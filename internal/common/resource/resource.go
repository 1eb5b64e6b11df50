package resource

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xhit/go-str2duration/v2"
	"k8s.io/apimachinery/pkg/api/resource"
)

const (
	Mebibyte int64 = 1 << 20
	Gibibyte int64 = 1 << 30
)

// Pipeline configs commonly spell memory the way Nextflow does ("128.GB", "8 GB"), where the
// units are powers of 1024. These are rewritten to the equivalent binary SI suffix before being
// handed to the Kubernetes quantity parser, which also accepts its own forms ("128Gi", "500M").
var (
	pipelineMemoryPattern   = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*\.?\s*([kKmMgGtTpP]?[bB])$`)
	pipelineDurationPattern = regexp.MustCompile(`([0-9])\s*\.\s*([a-zA-Z])`)
	pipelineMemoryUnits     = map[string]string{
		"B":  "",
		"KB": "Ki",
		"MB": "Mi",
		"GB": "Gi",
		"TB": "Ti",
		"PB": "Pi",
	}
)

// ParseMemory returns the number of bytes represented by s, rounding fractional bytes up.
func ParseMemory(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, errors.New("memory quantity is empty")
	}
	if m := pipelineMemoryPattern.FindStringSubmatch(trimmed); m != nil {
		trimmed = m[1] + pipelineMemoryUnits[strings.ToUpper(m[2])]
	}
	q, err := resource.ParseQuantity(trimmed)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot parse memory quantity %q", s)
	}
	return q.Value(), nil
}

// FormatMemory renders bytes using the most compact binary SI suffix, e.g. "32Gi".
func FormatMemory(bytes int64) string {
	return resource.NewQuantity(bytes, resource.BinarySI).String()
}

// ParseDuration accepts Go durations, day suffixes ("2d") and Nextflow spellings ("240.h").
func ParseDuration(s string) (time.Duration, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, errors.New("duration is empty")
	}
	trimmed = pipelineDurationPattern.ReplaceAllString(trimmed, "$1$2")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	d, err := str2duration.ParseDuration(trimmed)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot parse duration %q", s)
	}
	return d, nil
}
