// Package report renders backtest results for humans: a sectioned
// console summary, tabular views of positions and journaled runs, and
// CSV exports. It consumes result values as plain data and never
// reaches back into the engine.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/quantfold/fundarb/backtest"
	"github.com/quantfold/fundarb/funding"
	"github.com/quantfold/fundarb/journal"
	"github.com/quantfold/fundarb/market"
)

func ts(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}

// PrintSummary writes the sectioned console report for one run.
func PrintSummary(w io.Writer, res backtest.Result) {
	days := float64(res.EndTime-res.StartTime) / 86400000.0
	if days < 1 {
		days = 1
	}
	annualized := res.TotalReturnPct / days * 365

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Funding Arbitrage Backtest")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Period:        %s -> %s (%.0f days)\n", ts(res.StartTime), ts(res.EndTime), days)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Initial Capital:   %.2f\n", res.InitialCapital)
	fmt.Fprintf(w, "Final Capital:     %.2f\n", res.FinalCapital)
	fmt.Fprintf(w, "Total Return:      %.2f (%.2f%%)\n", res.TotalReturn, res.TotalReturnPct)
	fmt.Fprintf(w, "Annualized:        %.2f%%\n", annualized)
	fmt.Fprintf(w, "Funding Collected: %.2f\n", res.FundingCollected)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", res.NumTrades)
	fmt.Fprintf(w, "Wins:          %d\n", res.NumWinningTrades)
	fmt.Fprintf(w, "Losses:        %d\n", res.NumLosingTrades)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", res.WinRate*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", res.MaxDrawdown*100)
	fmt.Fprintf(w, "Sharpe Ratio:  %.2f\n", res.SharpeRatio)

	if len(res.Positions) > 0 {
		var sum float64
		best, worst := res.Positions[0], res.Positions[0]
		for _, p := range res.Positions {
			sum += p.PnL
			if p.PnL > best.PnL {
				best = p
			}
			if p.PnL < worst.PnL {
				worst = p
			}
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, "Closed Positions")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Average PnL:   %.2f\n", sum/float64(len(res.Positions)))
		fmt.Fprintf(w, "Best:          %s %.2f\n", best.Asset, best.PnL)
		fmt.Fprintf(w, "Worst:         %s %.2f\n", worst.Asset, worst.PnL)
	}

	fmt.Fprintln(w)
}

// PrintPositions renders the closed positions as a table.
func PrintPositions(w io.Writer, positions []backtest.Position) {
	if len(positions) == 0 {
		fmt.Fprintln(w, "No closed positions.")
		return
	}

	tbl := tablewriter.NewWriter(w)
	tbl.Header("Asset", "Signal", "Entry", "Exit", "Entry Px", "Exit Px", "Funding", "PnL", "Hours")

	for _, p := range positions {
		hours := float64(p.ExitTime-p.EntryTime) / 3600000.0
		tbl.Append(
			p.Asset,
			p.Signal.String(),
			ts(p.EntryTime),
			ts(p.ExitTime),
			fmt.Sprintf("%.4f", p.EntryPrice),
			fmt.Sprintf("%.4f", p.ExitPrice),
			fmt.Sprintf("%.4f", p.FundingCollected),
			fmt.Sprintf("%.4f", p.PnL),
			fmt.Sprintf("%.1f", hours),
		)
	}
	tbl.Render()
}

// PrintRuns renders journaled run summaries, newest first.
func PrintRuns(w io.Writer, runs []journal.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return
	}

	tbl := tablewriter.NewWriter(w)
	tbl.Header("Run ID", "Created", "Assets", "Final", "Return %", "Trades", "Win %", "Max DD %", "Sharpe")

	for _, r := range runs {
		tbl.Append(
			r.RunID,
			r.Created.UTC().Format("2006-01-02 15:04"),
			r.Assets,
			fmt.Sprintf("%.2f", r.FinalCapital),
			fmt.Sprintf("%.2f", r.TotalReturnPct),
			fmt.Sprintf("%d", r.NumTrades),
			fmt.Sprintf("%.1f", r.WinRate*100),
			fmt.Sprintf("%.2f", r.MaxDrawdown*100),
			fmt.Sprintf("%.2f", r.SharpeRatio),
		)
	}
	tbl.Render()
}

// PrintRunTrades renders one run's journaled trades in order.
func PrintRunTrades(w io.Writer, trades []journal.TradeRecord) {
	if len(trades) == 0 {
		fmt.Fprintln(w, "No recorded trades.")
		return
	}

	tbl := tablewriter.NewWriter(w)
	tbl.Header("Time", "Asset", "Action", "Price", "Size", "Signal")

	for _, tr := range trades {
		tbl.Append(
			ts(tr.Time),
			tr.Asset,
			tr.Action,
			fmt.Sprintf("%.4f", tr.Price),
			fmt.Sprintf("%.6f", tr.Size),
			tr.Signal,
		)
	}
	tbl.Render()
}

// PrintDataSummary renders per-asset coverage of a loaded history.
func PrintDataSummary(w io.Writer, history map[string][]market.Point) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No history loaded.")
		return
	}

	tbl := tablewriter.NewWriter(w)
	tbl.Header("Asset", "Points", "From", "To", "Last Rate", "Last APR %")

	for _, asset := range market.SortedAssets(history) {
		pts := history[asset]
		if len(pts) == 0 {
			continue
		}
		first, last := pts[0], pts[len(pts)-1]
		for _, p := range pts {
			if p.Timestamp < first.Timestamp {
				first = p
			}
			if p.Timestamp > last.Timestamp {
				last = p
			}
		}
		tbl.Append(
			asset,
			fmt.Sprintf("%d", len(pts)),
			ts(first.Timestamp),
			ts(last.Timestamp),
			fmt.Sprintf("%.6f", last.FundingRate),
			fmt.Sprintf("%.2f", funding.ExpectedAPR(last.FundingRate)*100),
		)
	}
	tbl.Render()
}
