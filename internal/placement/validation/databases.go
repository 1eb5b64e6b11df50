package validation

import (
	"fmt"

	"github.com/armadaproject/placement/internal/placement/configuration"
)

// databasesValidator checks that the external data the pipeline relies on exists.
// Missing required paths are errors; missing optional paths are warnings.
type databasesValidator struct {
	env Environment
}

func (v databasesValidator) Validate(c configuration.Configuration) Result {
	var result Result
	structValidator := newStructValidator()
	seen := make(map[string]bool, len(c.Databases))
	for i, db := range c.Databases {
		validateStruct(&result, structValidator, fmt.Sprintf("databases[%d]", i), db)
		if db.Name != "" {
			if seen[db.Name] {
				result.Warnf("database %q is configured more than once", db.Name)
			}
			seen[db.Name] = true
		}
		if db.Path == "" || v.env.Stat == nil {
			continue
		}
		if _, err := v.env.Stat(db.Path); err != nil {
			if db.Required {
				result.Errorf("required database %q not found at %s: %v", db.Name, db.Path, err)
			} else {
				result.Warnf("optional database %q not found at %s", db.Name, db.Path)
			}
		}
	}
	return result
}
