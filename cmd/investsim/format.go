package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc/investsimv1"
)

const currency = money.USD

// formatMoney renders a decimal amount string as dollars, e.g. "$11,600.00".
// Unparseable input is returned unchanged.
func formatMoney(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	cur := money.GetCurrency(currency)
	return money.New(d.Shift(int32(cur.Fraction)).Round(0).IntPart(), currency).Display()
}

// formatPercent renders a percentage string with an explicit sign
func formatPercent(pct string) string {
	d, err := decimal.NewFromString(pct)
	if err != nil {
		return pct
	}
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

func printOutcome(w io.Writer, o *investsimv1.Outcome) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tINVESTED\tFROM\tTO\tSHARES\tVALUE\tRETURN")
	for _, r := range o.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Ticker, formatMoney(r.AllocatedAmount), r.InitialDate, r.FinalDate,
			r.Shares, formatMoney(r.FinalValue), formatPercent(r.ReturnPercentage))
	}
	tw.Flush()

	if o.Summary == nil {
		return
	}
	fmt.Fprintf(w, "\nInvested: %s  Final: %s  Profit: %s (%s)\n",
		formatMoney(o.Summary.InitialInvestment), formatMoney(o.Summary.FinalValue),
		formatMoney(o.Summary.Profit), formatPercent(o.Summary.ReturnPercentage))

	if len(o.DailyUpdates) > 0 {
		latest := o.DailyUpdates[len(o.DailyUpdates)-1]
		fmt.Fprintf(w, "Tracking since %s, latest %s: %s\n", o.DailyUpdates[0].Date, latest.Date, formatMoney(latest.Value))
	}

	if len(o.Summary.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, rec := range o.Summary.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
}

func printSimulations(w io.Writer, sims []*investsimv1.SavedSimulation) {
	if len(sims) == 0 {
		fmt.Fprintln(w, "No saved simulations")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMODE\tVALUE\tRETURN")
	for _, s := range sims {
		value, ret := "-", "-"
		if s.Outcome != nil && s.Outcome.Summary != nil {
			value = formatMoney(s.Outcome.Summary.FinalValue)
			ret = formatPercent(s.Outcome.Summary.ReturnPercentage)
		}
		mode := ""
		if s.Outcome != nil {
			mode = s.Outcome.Mode
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Id, s.Name, mode, value, ret)
	}
	tw.Flush()
}

func printDashboard(w io.Writer, d *investsimv1.GetDashboardResponse) {
	fmt.Fprintf(w, "Simulations: %d (%d finite, %d daily)\n", d.TotalSimulations, d.FiniteCount, d.DailyCount)
	fmt.Fprintf(w, "Invested:    %s\n", formatMoney(d.TotalInvested))
	fmt.Fprintf(w, "Value:       %s\n", formatMoney(d.CurrentValue))
	fmt.Fprintf(w, "Profit:      %s (%s)\n", formatMoney(d.Profit), formatPercent(d.ReturnPercentage))
}

func printAssets(w io.Writer, assets []*investsimv1.Asset) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tNAME\tCATEGORY")
	for _, a := range assets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Ticker, a.Name, a.Category)
	}
	tw.Flush()
}
