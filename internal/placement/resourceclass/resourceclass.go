// Package resourceclass tags jobs with the logical resource profile they were defined with.
//
// The built-in kinds are matched exactly. Free-form labels, such as the "process_gpu" style
// labels used by pipeline definitions, fall back to substring matching for the routing
// markers (gpu, memory_intensive, quick, high). The size markers low and medium only match
// as whole words of the label, so "slow_assembly" is not a low class.
package resourceclass

import (
	"strings"
)

type Kind string

const (
	KindLow             Kind = "low"
	KindMedium          Kind = "medium"
	KindHigh            Kind = "high"
	KindMemoryIntensive Kind = "memory_intensive"
	KindGpu             Kind = "gpu"
	KindQuick           Kind = "quick"
	KindCustom          Kind = "custom"
)

// BuiltinKinds lists the built-in kinds in a stable order.
var BuiltinKinds = []Kind{KindLow, KindMedium, KindHigh, KindMemoryIntensive, KindGpu, KindQuick}

// Class is a parsed resource class. Instances are values and never mutated after Parse.
type Class struct {
	// Label as given in the job definition.
	Label string
	// Kind is the built-in kind the label resolved to, or KindCustom.
	Kind              Kind
	IsGpu             bool
	IsMemoryIntensive bool
	IsQuick           bool
	IsHigh            bool
	IsLow             bool
}

// Parse resolves label into a Class.
func Parse(label string) Class {
	key := normalise(label)
	class := Class{Label: label, Kind: KindCustom}
	for _, kind := range BuiltinKinds {
		if key == string(kind) {
			class.Kind = kind
			break
		}
	}
	class.IsGpu = class.Kind == KindGpu || strings.Contains(key, string(KindGpu))
	class.IsMemoryIntensive = class.Kind == KindMemoryIntensive || strings.Contains(key, string(KindMemoryIntensive))
	class.IsQuick = class.Kind == KindQuick || strings.Contains(key, string(KindQuick))
	class.IsHigh = class.Kind == KindHigh || strings.Contains(key, string(KindHigh))
	class.IsLow = class.Kind == KindLow || hasWord(key, string(KindLow))
	if class.Kind == KindCustom {
		class.Kind = inferKind(key)
	}
	return class
}

// Key is the normalised label used to look the class up in configuration maps.
func (c Class) Key() string {
	return normalise(c.Label)
}

func (c Class) String() string {
	return c.Label
}

// inferKind maps a free-form label onto a built-in kind using the same priority as
// partition selection, returning KindCustom if nothing matches.
func inferKind(key string) Kind {
	switch {
	case strings.Contains(key, string(KindGpu)):
		return KindGpu
	case strings.Contains(key, string(KindMemoryIntensive)):
		return KindMemoryIntensive
	case strings.Contains(key, string(KindQuick)):
		return KindQuick
	case strings.Contains(key, string(KindHigh)):
		return KindHigh
	case hasWord(key, string(KindMedium)):
		return KindMedium
	case hasWord(key, string(KindLow)):
		return KindLow
	}
	return KindCustom
}

// hasWord reports whether word is one of the words of key, which are separated by
// underscores, hyphens, dots or spaces.
func hasWord(key string, word string) bool {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}

func normalise(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
