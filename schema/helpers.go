package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// descriptorAttrRe matches one key=value attribute inside the bracketed body
// of a classic stringified sprint descriptor. Values run to the next comma or
// closing bracket, so names with spaces survive.
var descriptorAttrRe = regexp.MustCompile(`(\w+)=([^,\]]*)`)

// ParseSprintDescriptor parses the classic stringified sprint representation
// ("com.atlassian.greenhopper.service.sprint.Sprint@1f[id=5,rapidViewId=3,
// state=CLOSED,name=Sprint 5,startDate=...,endDate=...]") into a Sprint.
// Attributes it does not know about are ignored.
func ParseSprintDescriptor(s string) (Sprint, error) {
	body := s
	if start := strings.Index(s, "["); start >= 0 {
		if end := strings.LastIndex(s, "]"); end > start {
			body = s[start+1 : end]
		}
	}

	var sp Sprint
	seen := false
	for _, m := range descriptorAttrRe.FindAllStringSubmatch(body, -1) {
		key, val := m[1], strings.TrimSpace(m[2])
		if val == "<null>" {
			val = ""
		}
		switch key {
		case "id":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return Sprint{}, fmt.Errorf("sprint descriptor has non-numeric id %q", val)
			}
			sp.ID = n
			seen = true
		case "name":
			sp.Name = val
			seen = true
		case "state":
			sp.State = strings.ToLower(val)
		case "rapidViewId", "boardId":
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				sp.BoardID = n
			}
		case "startDate":
			sp.StartDate = val
		case "endDate":
			sp.EndDate = val
		}
	}
	if !seen {
		return Sprint{}, fmt.Errorf("sprint descriptor %q has no id or name attribute", s)
	}
	return sp, nil
}

// SprintsFromField converts the raw sprint membership field value into typed
// Sprint records. The tracker hands this field over in two shapes depending on
// the call site: a list of JSON objects (modern API) or a list of stringified
// descriptors (classic API). Both are supported here.
func SprintsFromField(v any) ([]Sprint, error) {
	if v == nil {
		return nil, fmt.Errorf("sprint field is null")
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("sprint field has unexpected type %T", v)
	}
	out := make([]Sprint, 0, len(list))
	for _, item := range list {
		switch rec := item.(type) {
		case map[string]any:
			sp := Sprint{
				Name:  AsString(rec["name"]),
				State: strings.ToLower(AsString(rec["state"])),
			}
			id, ok := AsInt64(rec["id"])
			if !ok {
				return nil, fmt.Errorf("sprint record %v has no numeric id", rec)
			}
			sp.ID = id
			if bid, ok := AsInt64(rec["boardId"]); ok {
				sp.BoardID = bid
			} else if bid, ok := AsInt64(rec["originBoardId"]); ok {
				sp.BoardID = bid
			}
			sp.StartDate = AsString(rec["startDate"])
			sp.EndDate = AsString(rec["endDate"])
			out = append(out, sp)
		case string:
			sp, err := ParseSprintDescriptor(rec)
			if err != nil {
				return nil, err
			}
			out = append(out, sp)
		default:
			return nil, fmt.Errorf("sprint membership has unexpected type %T", item)
		}
	}
	return out, nil
}

// WorklogsFromField extracts worklog entries from the raw "worklog" field
// value of a fully fetched issue. Entries missing expected attributes come
// back with zero values rather than failing the issue.
func WorklogsFromField(v any) []Worklog {
	container, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	list, ok := container["worklogs"].([]any)
	if !ok {
		return nil
	}
	out := make([]Worklog, 0, len(list))
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var w Worklog
		if author, ok := rec["author"].(map[string]any); ok {
			w.Author = AsString(author["displayName"])
		}
		w.Started = AsString(rec["started"])
		w.Updated = AsString(rec["updated"])
		if n, ok := AsInt64(rec["timeSpentSeconds"]); ok {
			w.TimeSpentSeconds = n
		}
		out = append(out, w)
	}
	return out
}

// AsInt64 coerces a decoded JSON value to int64.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// AsString coerces a decoded JSON value to its string form; nil becomes "".
func AsString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
