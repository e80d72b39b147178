package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// cellWidth is the display width of one square in the text grid
const cellWidth = 6

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Board:
		o.printBoard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Board response type (matches API)
type Board struct {
	ID                      string            `json:"id"`
	DisplayName             string            `json:"display_name"`
	MaxSquaresPerContestant int               `json:"max_squares_per_contestant"`
	State                   string            `json:"state"`
	Squares                 map[string]string `json:"squares"`
	ClaimedCount            int               `json:"claimed_count"`
	Teams                   *Teams            `json:"teams,omitempty"`
	Winners                 map[string]Winner `json:"winners,omitempty"`
	Version                 int64             `json:"version"`
	CreatedAt               time.Time         `json:"created_at"`
	UpdatedAt               time.Time         `json:"updated_at"`
}

// Axis response type
type Axis struct {
	Team    string `json:"team"`
	Numbers []int  `json:"numbers"`
}

// Teams response type
type Teams struct {
	Axis1 Axis `json:"axis1"`
	Axis2 Axis `json:"axis2"`
}

// Winner response type
type Winner struct {
	Position string `json:"position"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Owner    string `json:"owner"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printBoard(b Board) {
	fmt.Fprintf(o.w, "Board: %s\n", b.ID)
	if b.DisplayName != "" {
		fmt.Fprintf(o.w, "Name: %s\n", b.DisplayName)
		fmt.Fprintf(o.w, "Max Squares: %d\n", b.MaxSquaresPerContestant)
	}
	fmt.Fprintf(o.w, "State: %s\n", b.State)
	fmt.Fprintf(o.w, "Claimed: %d/100\n", b.ClaimedCount)

	if b.Teams != nil {
		fmt.Fprintf(o.w, "Columns: %s\n", b.Teams.Axis1.Team)
		fmt.Fprintf(o.w, "Rows: %s\n", b.Teams.Axis2.Team)
	}

	if b.State != "setup" {
		fmt.Fprintln(o.w)
		o.printGrid(b)
	}

	if len(b.Winners) > 0 {
		quarters := make([]string, 0, len(b.Winners))
		for q := range b.Winners {
			quarters = append(quarters, q)
		}
		sort.Strings(quarters)

		fmt.Fprintln(o.w, "\nWinners:")
		for _, q := range quarters {
			w := b.Winners[q]
			fmt.Fprintf(o.w, "  %s: %s (%s)\n", strings.ToUpper(q), w.Owner, w.Position)
		}
	}
}

// printGrid prints the 10x10 grid with axis digits, or "?" before assignment
func (o *Output) printGrid(b Board) {
	const size = 10

	columns := axisHeaders(b.Teams, true)
	rows := axisHeaders(b.Teams, false)

	fmt.Fprint(o.w, "    ")
	for col := 0; col < size; col++ {
		fmt.Fprintf(o.w, " %s", pad(columns[col]))
	}
	fmt.Fprintln(o.w)

	border := "   +" + strings.Repeat("-", size*(cellWidth+1)+1) + "+"
	fmt.Fprintln(o.w, border)

	for row := 0; row < size; row++ {
		fmt.Fprintf(o.w, " %s |", rows[row])
		for col := 0; col < size; col++ {
			owner := b.Squares[strconv.Itoa(row)+","+strconv.Itoa(col)]
			if owner == "" {
				owner = "."
			}
			fmt.Fprintf(o.w, " %s", pad(owner))
		}
		fmt.Fprintln(o.w, " |")
	}

	fmt.Fprintln(o.w, border)
}

func axisHeaders(teams *Teams, columns bool) []string {
	headers := make([]string, 10)
	for i := range headers {
		headers[i] = "?"
	}
	if teams == nil {
		return headers
	}
	numbers := teams.Axis2.Numbers
	if columns {
		numbers = teams.Axis1.Numbers
	}
	for i := 0; i < len(headers) && i < len(numbers); i++ {
		headers[i] = strconv.Itoa(numbers[i])
	}
	return headers
}

// pad fits s into a grid cell, truncating long names
func pad(s string) string {
	r := []rune(s)
	if len(r) > cellWidth {
		r = r[:cellWidth]
	}
	return string(r) + strings.Repeat(" ", cellWidth-len(r))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
