package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/moznion/go-optional"
	"github.com/olekukonko/tablewriter"
	"github.com/rxtech-lab/argo-insight/internal/analysis"
	"github.com/rxtech-lab/argo-insight/internal/types"
)

// maxPoints is how many of the most recent historical points each side shows.
const maxPoints = 10

// Renderer writes analysis reports for humans (tables) or machines (JSON).
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// RenderJSON writes the report as indented JSON; undefined values are null.
func (r *Renderer) RenderJSON(report analysis.Report) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(report)
}

// batchEntry is the JSON shape of one batch result.
type batchEntry struct {
	Symbol string           `json:"symbol"`
	Path   string           `json:"path,omitempty"`
	Error  string           `json:"error,omitempty"`
	Report *analysis.Report `json:"report,omitempty"`
}

// RenderBatchJSON writes every batch result, failed ones with their error.
func (r *Renderer) RenderBatchJSON(results []analysis.Result) error {
	entries := make([]batchEntry, len(results))

	for i, result := range results {
		entries[i] = batchEntry{Symbol: result.Request.Symbol, Path: result.Request.Path}
		if result.Err != nil {
			entries[i].Error = result.Err.Error()

			continue
		}

		entries[i].Report = &results[i].Report
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(entries)
}

// Render writes the report as a sequence of titled tables.
func (r *Renderer) Render(report analysis.Report) error {
	r.printf("%s  bars=%d  last=%s  close=%s\n\n",
		report.Symbol, report.Bars, OptionalDate(report.LastDate), OptionalPrice(report.LastClose))

	sections := []func(analysis.Report) error{
		r.renderIndicators,
		r.renderLevels,
		r.renderSignals,
		r.renderPoints,
		r.renderInterpretation,
		r.renderForecast,
	}

	for _, section := range sections {
		if err := section(report); err != nil {
			return err
		}
	}

	return nil
}

// RenderBatch writes one summary row per batch result.
func (r *Renderer) RenderBatch(results []analysis.Result) error {
	table := tablewriter.NewTable(r.out,
		tablewriter.WithHeader([]string{"Symbol", "Bars", "Close", "Score", "Recommendation", "Trend", "Target", "Stop", "Error"}),
	)

	for _, result := range results {
		if result.Err != nil {
			if err := table.Append([]string{result.Request.Symbol, missing, missing, missing, missing, missing, missing, missing, result.Err.Error()}); err != nil {
				return err
			}

			continue
		}

		rep := result.Report
		trend, target, stop := missing, missing, missing

		if rep.HasForecast() {
			forecast := rep.Forecast.Unwrap()
			trend = string(forecast.Trend)
			target = Price(forecast.TargetPrice)
			stop = Price(forecast.StopLoss)
		}

		row := []string{
			rep.Symbol,
			strconv.Itoa(rep.Bars),
			OptionalPrice(rep.LastClose),
			strconv.Itoa(rep.Signals.TotalScore),
			string(rep.Signals.Recommendation),
			trend,
			target,
			stop,
			"",
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}

	return table.Render()
}

func (r *Renderer) renderIndicators(report analysis.Report) error {
	latest := report.Latest
	rows := []struct {
		name  string
		value optional.Option[float64]
	}{
		{"MA5", latest.MA5},
		{"MA10", latest.MA10},
		{"MA20", latest.MA20},
		{"MA60", latest.MA60},
		{"RSI(14)", latest.RSI},
		{"MACD", latest.MACD},
		{"MACD signal", latest.MACDSignal},
		{"MACD histogram", latest.MACDHistogram},
		{"K", latest.K},
		{"D", latest.D},
		{"BB upper", latest.BollingerUpper},
		{"BB middle", latest.BollingerMiddle},
		{"BB lower", latest.BollingerLower},
	}

	r.printf("Indicators\n")

	table := tablewriter.NewTable(r.out, tablewriter.WithHeader([]string{"Indicator", "Value"}))
	for _, row := range rows {
		if err := table.Append([]string{row.name, OptionalPrice(row.value)}); err != nil {
			return err
		}
	}

	return r.finish(table)
}

func (r *Renderer) renderLevels(report analysis.Report) error {
	r.printf("Support / Resistance (current %s)\n", Price(report.Levels.CurrentPrice))

	table := tablewriter.NewTable(r.out, tablewriter.WithHeader([]string{"Kind", "Price", "Distance"}))
	for _, level := range report.Levels.All() {
		distance := missing
		if report.Levels.CurrentPrice > 0 {
			distance = Percent((level.Price - report.Levels.CurrentPrice) / report.Levels.CurrentPrice * 100)
		}

		if err := table.Append([]string{string(level.Kind), Price(level.Price), distance}); err != nil {
			return err
		}
	}

	return r.finish(table)
}

func (r *Renderer) renderSignals(report analysis.Report) error {
	signals := report.Signals
	r.printf("Signals: %s (%s), buy %d / sell %d / total %+d\n",
		signals.Recommendation, signals.Description, signals.BuyScore, signals.SellScore, signals.TotalScore)

	if len(signals.Signals) == 0 {
		r.printf("\n")

		return nil
	}

	table := tablewriter.NewTable(r.out, tablewriter.WithHeader([]string{"Indicator", "Type", "Strength", "Reason"}))
	for _, s := range signals.Signals {
		if err := table.Append([]string{string(s.Indicator), string(s.Type), strconv.Itoa(s.Strength), s.Reason}); err != nil {
			return err
		}
	}

	return r.finish(table)
}

func (r *Renderer) renderPoints(report analysis.Report) error {
	points := report.Points
	r.printf("Historical points: %d buy, %d sell\n", len(points.Buy), len(points.Sell))

	if len(points.Buy)+len(points.Sell) == 0 {
		r.printf("\n")

		return nil
	}

	table := tablewriter.NewTable(r.out, tablewriter.WithHeader([]string{"Type", "Date", "Price", "Score"}))

	sides := []struct {
		kind   types.SignalType
		points []types.HistoricalPoint
	}{
		{types.SignalTypeBuy, points.Buy},
		{types.SignalTypeSell, points.Sell},
	}

	for _, side := range sides {
		for _, p := range side.points[max(0, len(side.points)-maxPoints):] {
			row := []string{string(side.kind), p.Date.Format(time.DateOnly), Price(p.Price), strconv.Itoa(p.Score)}
			if err := table.Append(row); err != nil {
				return err
			}
		}
	}

	return r.finish(table)
}

func (r *Renderer) renderInterpretation(report analysis.Report) error {
	if len(report.Interpretation) == 0 {
		return nil
	}

	r.printf("Interpretation\n")

	for _, line := range report.Interpretation {
		r.printf("  - %s\n", line)
	}

	r.printf("\n")

	return nil
}

func (r *Renderer) renderForecast(report analysis.Report) error {
	if !report.HasForecast() {
		r.printf("Forecast unavailable: %s\n", report.ForecastError)

		return nil
	}

	f := report.Forecast.Unwrap()
	r.printf("Forecast: %s (%s), score %+d\n", f.Trend, f.TrendDescription, f.TrendScore)
	r.printf("  slope %s/day (%s), MA5 vs MA20 %s (%s)\n", Price(f.Slope), f.SlopeDirection, Percent(f.MADiffPct), f.MATrend)
	r.printf("  volatility %s annualized, %s daily\n", Fraction(f.AnnualizedVolatility), Fraction(f.DailyVolatility))
	r.printf("  target %s, stop loss %s\n", Price(f.TargetPrice), Price(f.StopLoss))

	for _, factor := range f.TrendFactors {
		r.printf("  * %s\n", factor)
	}

	table := tablewriter.NewTable(r.out, tablewriter.WithHeader([]string{"Day", "Price", "Lower", "Upper", "Change"}))
	for _, p := range f.Predictions {
		row := []string{strconv.Itoa(p.Day), Price(p.PredictedPrice), Price(p.LowerBound), Price(p.UpperBound), Percent(p.ChangePct)}
		if err := table.Append(row); err != nil {
			return err
		}
	}

	return r.finish(table)
}

func (r *Renderer) finish(table *tablewriter.Table) error {
	if err := table.Render(); err != nil {
		return err
	}

	r.printf("\n")

	return nil
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
