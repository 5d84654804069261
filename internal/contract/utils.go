package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Completion rate label constants.
const (
	DoneValue    = "Done"     // Every counted issue is done
	OnTrackValue = "On Track" // Most issues are done
	AtRiskValue  = "At Risk"  // Less than half done
	StalledValue = "Stalled"  // Nothing done yet
)

// Color variables for console output.
var (
	DoneColor    = color.New(color.FgGreen, color.Bold)
	OnTrackColor = color.New(color.FgCyan)
	AtRiskColor  = color.New(color.FgYellow)
	StalledColor = color.New(color.FgRed, color.Bold)
)

// GetPlainLabel buckets a sprint's completion ratio into a plain text label.
// This is the core logic used for file output and table printing.
func GetPlainLabel(completed, total int) string {
	if total <= 0 {
		return StalledValue
	}
	ratio := float64(completed) / float64(total)
	switch {
	case ratio >= 1:
		return DoneValue
	case ratio >= 0.5:
		return OnTrackValue
	case ratio > 0:
		return AtRiskValue
	default:
		return StalledValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, then applies the color.
func GetColorLabel(completed, total int) string {
	text := GetPlainLabel(completed, total)

	switch text {
	case DoneValue:
		return DoneColor.Sprint(text)
	case OnTrackValue:
		return OnTrackColor.Sprint(text)
	case AtRiskValue:
		return AtRiskColor.Sprint(text)
	default: // "Stalled"
		return StalledColor.Sprint(text)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
