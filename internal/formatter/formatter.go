// package formatter renders CLI listings (shows, credentials, bulk cancellations) as CSV, Markdown, JSON or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/squadcast/internal/models"
	"github.com/desertthunder/squadcast/internal/services"
	"github.com/desertthunder/squadcast/internal/shared"
	"github.com/desertthunder/squadcast/internal/tasks"
)

// Format names an output encoding
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
)

// Formats lists every accepted format name
var Formats = []Format{FormatTable, FormatCSV, FormatMarkdown, FormatJSON, FormatText}

// ParseFormat resolves a case-insensitive format name. "md" is accepted for Markdown.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatTable:
		return FormatTable, nil
	case "md":
		return FormatMarkdown, nil
	case FormatCSV, FormatMarkdown, FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, name)
	}
}

// Listing is a titled set of rows under headers
type Listing struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// ShowsListing lists shows as ID and name
func ShowsListing(shows []services.Show) Listing {
	l := Listing{Title: "Shows", Headers: []string{"ID", "Name"}}
	for _, show := range shows {
		l.Rows = append(l.Rows, []string{show.ID, show.Name})
	}
	return l
}

// CredentialsListing lists credentials without their keys
func CredentialsListing(creds []*models.Credential) Listing {
	l := Listing{Title: "Credentials", Headers: []string{"ID", "Type", "App", "User", "Invalid", "Created"}}
	for _, cred := range creds {
		l.Rows = append(l.Rows, []string{
			cred.ID(),
			cred.Type(),
			cred.AppID(),
			cred.UserID(),
			strconv.FormatBool(cred.Invalid()),
			cred.CreatedAt().Format(time.RFC3339),
		})
	}
	return l
}

// CancelListing lists the per-booking outcome of a bulk cancellation
func CancelListing(result *tasks.BulkCancelResult) Listing {
	l := Listing{
		Title:   fmt.Sprintf("Cancelled %d of %d bookings (%d failed)", result.Cancelled, result.Total, result.Failed),
		Headers: []string{"Booking", "Status", "Error"},
	}
	for _, r := range result.Results {
		status, msg := "cancelled", ""
		if !r.Success {
			status = "failed"
			if r.Error != nil {
				msg = r.Error.Error()
			}
		}
		l.Rows = append(l.Rows, []string{r.BookingUID, status, msg})
	}
	return l
}

// ToCSV renders the listing with a header record
func ToCSV(l Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(l.Headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range l.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders the listing as a heading and a pipe table
func ToMarkdown(l Listing) ([]byte, error) {
	var buf bytes.Buffer

	if l.Title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", l.Title)
	}

	fmt.Fprintf(&buf, "| %s |\n", strings.Join(escapeCells(l.Headers), " | "))
	seps := make([]string, len(l.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	fmt.Fprintf(&buf, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range l.Rows {
		fmt.Fprintf(&buf, "| %s |\n", strings.Join(escapeCells(row), " | "))
	}

	return buf.Bytes(), nil
}

// ToText renders one numbered line per row
func ToText(l Listing) ([]byte, error) {
	var buf bytes.Buffer

	if l.Title != "" {
		fmt.Fprintf(&buf, "%s: %d\n\n", l.Title, len(l.Rows))
	}

	for i, row := range l.Rows {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, strings.Join(nonEmpty(row), " - "))
	}

	return buf.Bytes(), nil
}

// ToJSON renders rows as objects keyed by lower-cased header
func ToJSON(l Listing) ([]byte, error) {
	records := make([]map[string]string, 0, len(l.Rows))
	for _, row := range l.Rows {
		rec := make(map[string]string, len(l.Headers))
		for i, h := range l.Headers {
			if i < len(row) {
				rec[strings.ToLower(h)] = row[i]
			}
		}
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Render encodes the listing in format. [FormatTable] has no byte encoding; the CLI draws it with lipgloss.
func Render(l Listing, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ToCSV(l)
	case FormatMarkdown:
		return ToMarkdown(l)
	case FormatJSON:
		return ToJSON(l)
	case FormatText:
		return ToText(l)
	default:
		return nil, fmt.Errorf("%w: format %q cannot be rendered to bytes", shared.ErrInvalidInput, format)
	}
}

// WriteExport renders the listing and writes it to path, returning the bytes written.
func WriteExport(l Listing, format Format, path string) (int, error) {
	data, err := Render(l, format)
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return len(data), nil
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

func nonEmpty(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
