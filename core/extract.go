package core

import (
	"fmt"
	"strings"

	"github.com/sprintsync/sprintsync/schema"
)

// resolveField looks up the value for one field spec inside the raw field
// value. ok is false when the value cannot be resolved: a sub-key requested
// on a null or non-object container, or a sub-key absent from the object.
func resolveField(raw any, subKey string) (any, bool) {
	if subKey == "" {
		return raw, true
	}
	container, isMap := raw.(map[string]any)
	if !isMap {
		return nil, false
	}
	val, present := container[subKey]
	if !present {
		return nil, false
	}
	return val, true
}

// ExtractFields produces a flat field-name → value mapping for one issue.
//
// Every named field must exist in the issue's field set; a missing field is a
// schema violation and fails the whole extraction. A field that exists but
// cannot be resolved (sub-key access on a null container) is defaulted
// locally: 0 for the resolution field, null otherwise. Any resolved value
// whose string form reads "nan" is coerced to null, and a resolved non-null
// resolution is always stored as 1 since its presence alone marks the issue
// as resolved.
func ExtractFields(issue schema.Issue, specs []schema.FieldSpec) (map[string]any, error) {
	out := make(map[string]any, len(specs))
	for _, fs := range specs {
		raw, present := issue.Fields[fs.Name]
		if !present {
			return nil, fmt.Errorf("issue %s field %q: %w", issue.Key, fs.Name, ErrSchemaViolation)
		}
		val, ok := resolveField(raw, fs.SubKey)

		if fs.Name == schema.FieldResolution {
			if ok && val != nil {
				out[fs.Name] = 1
			} else {
				out[fs.Name] = 0
			}
			continue
		}
		if !ok || val == nil {
			out[fs.Name] = nil
			continue
		}
		if strings.EqualFold(fmt.Sprint(val), "nan") {
			out[fs.Name] = nil
			continue
		}
		out[fs.Name] = val
	}
	return out, nil
}
