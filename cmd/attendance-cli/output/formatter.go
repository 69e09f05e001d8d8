package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jgirmay/attendance/pkg/models"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// NoColor disables escape codes.
var NoColor = false

// Out is where everything but errors is printed.
var Out io.Writer = os.Stdout

// Colorize adds color to text if colors are enabled
func Colorize(color, text string) string {
	if NoColor {
		return text
	}
	return color + text + ColorReset
}

// PrintTable prints data in table format
func PrintTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(Out, 0, 0, 3, ' ', 0)

	headerLine := make([]string, len(headers))
	separators := make([]string, len(headers))
	for i, h := range headers {
		headerLine[i] = Colorize(ColorBold+ColorCyan, h)
		separators[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(headerLine, "\t"))
	fmt.Fprintln(w, strings.Join(separators, "\t"))

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

// PrintJSON prints data in JSON format
func PrintJSON(data interface{}) error {
	encoder := json.NewEncoder(Out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// PrintSuccess prints a success message in green
func PrintSuccess(message string) {
	fmt.Fprintln(Out, Colorize(ColorGreen, "✓ "+message))
}

// PrintError prints an error message in red
func PrintError(message string) {
	fmt.Fprintln(os.Stderr, Colorize(ColorRed, "✗ "+message))
}

// PrintInfo prints an info message in blue
func PrintInfo(message string) {
	fmt.Fprintln(Out, Colorize(ColorBlue, "ℹ "+message))
}

// PrintKeyValue prints a key-value pair with color
func PrintKeyValue(key, value string) {
	fmt.Fprintf(Out, "%s: %s\n", Colorize(ColorBold, key), value)
}

// FormatStatus colors an attendance status.
func FormatStatus(status models.Status) string {
	switch status {
	case models.StatusPresent:
		return Colorize(ColorGreen, string(status))
	case models.StatusLate, models.StatusHalfDay:
		return Colorize(ColorYellow, string(status))
	case models.StatusAbsent:
		return Colorize(ColorRed, string(status))
	default:
		return string(status)
	}
}

// RecordRow renders a record for PrintTable. Times are shown in the local
// zone of the machine running the CLI.
func RecordRow(r models.AttendanceRecord) []string {
	checkOut := "-"
	if r.CheckOutTime != nil {
		checkOut = r.CheckOutTime.Local().Format("15:04")
	}
	return []string{
		r.Date.Local().Format("Mon 02 Jan 2006"),
		FormatStatus(r.Status),
		r.CheckInTime.Local().Format("15:04"),
		checkOut,
		fmt.Sprintf("%.2f", r.TotalHours),
	}
}

// RecordHeaders matches RecordRow.
var RecordHeaders = []string{"DATE", "STATUS", "IN", "OUT", "HOURS"}
