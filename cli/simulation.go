package cli

import (
	"fmt"
	"strings"

	"github.com/warp/yield-engine/generic"
)

// SimulationView controls how much of a projection is printed.
type SimulationView struct {
	// MaxRows limits the daily table. Rows beyond it are elided from the
	// middle; 0 prints every record.
	MaxRows int
	// HideChart drops the sparkline.
	HideChart bool
}

// RenderSimulation renders the summary, the daily table, the holidays that
// fell inside the period and a sparkline of the net balance.
func RenderSimulation(r *generic.ProjectionResult, view SimulationView) string {
	var b strings.Builder

	b.WriteString(RenderTitle(fmt.Sprintf("SIMULAÇÃO  %d dias úteis", r.Input.TargetBusinessDays)))
	b.WriteString("\n\n")

	b.WriteString(RenderKeyValues([][2]string{
		{"Valor investido", FormatBRL(r.Input.Principal)},
		{"Data do investimento", r.Input.StartDate.BR()},
		{"Período", r.Period.Start.BR() + " a " + r.Period.End.BR()},
		{"Taxa diária", FormatPercent(r.DailyRate, 4)},
		{"Taxa anual", FormatPercent(r.AnnualRate, 2)},
		{"Alíquota IR", FormatPercent(r.WithholdingRate, 1)},
		{"Rendimento bruto", FormatBRL(r.TotalGross)},
		{"Imposto retido", FormatBRL(r.TotalTax)},
		{"Rendimento líquido", FormatBRL(r.TotalNet)},
		{"Valor final", FormatBRL(r.FinalBalance)},
	}))
	b.WriteString("\n")

	b.WriteString(RenderTable(Table{
		Title:   "Projeção diária",
		Headers: []string{"Dia", "Sem", "Bruto", "IR", "Líquido", "Saldo"},
		Rows:    recordRows(r.Records, view.MaxRows),
	}))

	if len(r.Holidays) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderHolidays("Feriados no período", r.Holidays))
	}

	if !view.HideChart && len(r.Records) > 1 {
		values := make([]float64, 0, len(r.Records))
		for _, v := range r.Series().Net {
			values = append(values, v.InexactFloat64())
		}
		b.WriteString("\n  ")
		b.WriteString(mutedStyle.Render("Evolução do saldo "))
		b.WriteString(RenderSparkline(values))
		b.WriteString("\n")
	}

	return b.String()
}

func recordRows(records []generic.DailyRecord, max int) [][]string {
	row := func(rec generic.DailyRecord) []string {
		return []string{
			rec.Date.BR(),
			FormatDayOfWeek(int(rec.Date.Weekday())),
			FormatBRL(rec.GrossIncrement),
			FormatBRL(rec.Tax()),
			FormatBRL(rec.NetIncrement),
			FormatBRL(rec.BalanceAfter),
		}
	}

	if max <= 0 || len(records) <= max {
		rows := make([][]string, 0, len(records))
		for _, rec := range records {
			rows = append(rows, row(rec))
		}
		return rows
	}

	head := max / 2
	tail := max - head
	rows := make([][]string, 0, max+1)
	for _, rec := range records[:head] {
		rows = append(rows, row(rec))
	}
	rows = append(rows, []string{"---"})
	for _, rec := range records[len(records)-tail:] {
		rows = append(rows, row(rec))
	}
	return rows
}

// RenderHolidays renders a date/name table.
func RenderHolidays(title string, holidays []generic.Holiday) string {
	rows := make([][]string, 0, len(holidays))
	for _, h := range holidays {
		rows = append(rows, []string{h.Date.BR(), h.Name})
	}
	return RenderTable(Table{
		Title:   title,
		Headers: []string{"Data", "Feriado"},
		Rows:    rows,
	})
}
