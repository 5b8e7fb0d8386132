package taxonomy

import (
	"fmt"
	"strings"
)

// Build failure reasons
const (
	ReasonDuplicate  = "duplicate sibling"
	ReasonEmptyName  = "empty name"
	ReasonTooDeep    = "children below ward level"
	ReasonWrongLevel = "children at the wrong level"
	ReasonNoRegions  = "no regions"
	ReasonBadParent  = "unknown parent"
)

// BuildError is returned when a source tree cannot become a Taxonomy.
// It is fatal: callers should refuse to start with a broken taxonomy.
type BuildError struct {
	Path     []string // Display names of the parent, empty at the root
	Name     string   // Offending entry as written in the source
	Conflict string   // Existing sibling when Reason is ReasonDuplicate
	Reason   string
}

func (e *BuildError) Error() string {
	where := "root"
	if len(e.Path) > 0 {
		where = strings.Join(e.Path, " > ")
	}
	if e.Conflict != "" {
		return fmt.Sprintf("taxonomy: %s: %q under %s collides with %q", e.Reason, e.Name, where, e.Conflict)
	}
	return fmt.Sprintf("taxonomy: %s: %q under %s", e.Reason, e.Name, where)
}
