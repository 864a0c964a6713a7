package contract

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Priority label constants.
const (
	CriticalValue = "Critical" // Critical priority
	HighValue     = "High"     // High priority
	ModerateValue = "Moderate" // Moderate priority
	LowValue      = "Low"      // Low priority
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // standard danger
	HighColor     = color.New(color.FgMagenta, color.Bold) // strong, distinct warning
	ModerateColor = color.New(color.FgYellow)              // standard caution, not bold
	LowColor      = color.New(color.FgCyan)                // informational signal
)

// GetPlainLabel returns a plain text label for an insight priority in [1,10].
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(priority int) string {
	switch {
	case priority >= 8:
		return CriticalValue
	case priority >= 6:
		return HighValue
	case priority >= 4:
		return ModerateValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(priority int) string {
	text := GetPlainLabel(priority)
	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning without stopping execution.
func LogWarn(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %s: %v\n", msg, err)
		return
	}
	fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
}

// SelectOutputFile returns the appropriate file handle for output. An empty
// path falls back to stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}
