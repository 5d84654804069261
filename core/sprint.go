package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sprintsync/sprintsync/schema"
)

// sprintNameRe pulls the name attribute out of a stringified sprint
// descriptor. The value runs to the next comma, matching how the descriptor
// serializes its attributes.
var sprintNameRe = regexp.MustCompile(`name=[^,]*`)

// LastSprint returns the name of the sprint with the highest id, the most
// recently created membership. Ties keep the first occurrence in membership
// order so repeated runs over the same payload resolve identically.
func LastSprint(sprints []schema.Sprint) (string, error) {
	if len(sprints) == 0 {
		return "", ErrEmptyInput
	}
	best := sprints[0]
	for _, sp := range sprints[1:] {
		if sp.ID > best.ID {
			best = sp
		}
	}
	return best.Name, nil
}

// AllSprints renders the full membership history as a comma separated label,
// in membership order.
func AllSprints(sprints []schema.Sprint) string {
	names := make([]string, len(sprints))
	for i, sp := range sprints {
		names[i] = sp.Name
	}
	return strings.Join(names, ", ")
}

// SprintCounts counts, per sprint name, how many membership entries across
// all issues mention that sprint. An issue belonging to three sprints
// contributes to three counts. This works on the raw descriptor strings with
// a regex rather than the typed parse above: the two paths serve different
// semantics (any-position counting versus last-sprint resolution) and are
// kept separate on purpose.
func SprintCounts(issues []schema.Issue, sprintField string) (map[string]int, error) {
	counts := map[string]int{}
	for _, issue := range issues {
		raw, present := issue.Fields[sprintField]
		if !present {
			return nil, fmt.Errorf("issue %s field %q: %w", issue.Key, sprintField, ErrSchemaViolation)
		}
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("issue %s field %q is not a membership list", issue.Key, sprintField)
		}
		for _, item := range list {
			desc := schema.AsString(item)
			m := sprintNameRe.FindString(desc)
			if m == "" {
				return nil, fmt.Errorf("issue %s sprint descriptor %q has no name attribute", issue.Key, desc)
			}
			counts[strings.TrimPrefix(m, "name=")]++
		}
	}
	return counts, nil
}

// CompletedCounts counts done issues per resolved sprint label. The status
// comparison is case insensitive since trackers differ in workflow casing.
func CompletedCounts(rows []map[string]any) map[string]int {
	counts := map[string]int{}
	for _, row := range rows {
		status := schema.AsString(row["status"])
		if !strings.EqualFold(status, schema.DoneStatus) {
			continue
		}
		counts[schema.AsString(row["sprint"])]++
	}
	return counts
}

// SprintSummary merges total membership counts and completed counts into
// display rows sorted by sprint label.
func SprintSummary(totals, completed map[string]int) []schema.SprintSummaryRow {
	rows := make([]schema.SprintSummaryRow, 0, len(totals))
	for name, total := range totals {
		rows = append(rows, schema.SprintSummaryRow{
			Sprint:    name,
			Completed: completed[name],
			Total:     total,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Sprint < rows[j].Sprint })
	return rows
}
