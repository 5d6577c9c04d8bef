package motorctl

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/liftmotor/internal/domain/motor"
	"github.com/okian/liftmotor/internal/domain/types"
)

// Messages printed in place of a table.
const (
	msgNoMatches   = "No matches found."
	msgUnavailable = "Catalog unavailable"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Render writes the requirement and one section per motor type.
func Render(w io.Writer, resp types.Response) {
	req := resp.Requirement
	fmt.Fprintf(w, "Required capacity: %s kg  speed: %s m/s  travel: %s m  roping: %s  policy: %s\n",
		num(req.RequiredCapacityKG), num(req.RequiredSpeedMPS), num(req.RequiredTravelM),
		req.RopingFilter, resp.Policy)

	for _, res := range resp.Results {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render(string(res.MotorType)+" motors"))
		switch res.Status {
		case types.StatusUnavailable:
			fmt.Fprintln(w, warnStyle.Render(msgUnavailable+": "+res.Error))
		case types.StatusNoMatches:
			fmt.Fprintln(w, msgNoMatches)
		default:
			fmt.Fprintln(w, motorTable(res.Motors).Render())
		}
		for _, rej := range res.Rejected {
			fmt.Fprintf(w, "  rejected %s: %s\n", label(rej.Record), strings.Join(rej.Reasons, ", "))
		}
	}
}

// RenderCatalog writes every row of one catalog.
func RenderCatalog(w io.Writer, c *motor.Catalog) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s catalog (%d rows)", c.Type(), c.Len())))
	fmt.Fprintln(w, motorTable(c.Records()).Render())
}

func motorTable(records []motor.Record) *table.Table {
	extra := extraColumns(records)
	headers := append([]string{"Model", "Capacity_KG", "Effective_KG", "Speed_mps", "Max_Travel_m", "Roping"}, extra...)

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		travel := ""
		if v, ok := r.Travel(); ok {
			travel = num(v)
		}
		row := []string{
			r.Model,
			num(r.CapacityKG),
			num(r.EffectiveCapacityKG()),
			num(r.SpeedMPS),
			travel,
			string(r.Roping),
		}
		for _, col := range extra {
			row = append(row, r.Extra[col])
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// extraColumns returns the sorted union of pass-through column names.
func extraColumns(records []motor.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r.Extra {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func label(r motor.Record) string {
	if r.Model != "" {
		return r.Model
	}
	return fmt.Sprintf("%s kg @ %s m/s", num(r.CapacityKG), num(r.SpeedMPS))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
