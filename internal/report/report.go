// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders the exploratory charts: the topic-count heuristic
// curves and the SOM convergence trajectory.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/meshintel/topic-atlas/pkg/types"
)

// RenderSweep writes an HTML page with two line charts: the metrics to
// minimize (CaoJuan2009, Arun2010) and the metrics to maximize
// (Deveaud2014, log-likelihood). The reader picks k where minimizing and
// maximizing curves cross or plateau; the tool never picks for them.
func RenderSweep(w io.Writer, scores []types.KScores) error {
	var xs []string
	var cao, arun, dev, ll []opts.LineData
	for _, s := range scores {
		if s.Err != "" {
			continue
		}
		xs = append(xs, strconv.Itoa(s.K))
		cao = append(cao, opts.LineData{Value: s.CaoJuan})
		arun = append(arun, opts.LineData{Value: s.Arun})
		dev = append(dev, opts.LineData{Value: s.Deveaud})
		ll = append(ll, opts.LineData{Value: s.LogLikelihood})
	}
	if len(xs) == 0 {
		return fmt.Errorf("no successful candidates to chart")
	}

	minimize := charts.NewLine()
	minimize.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Topic count heuristics (minimize)"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)
	minimize.SetXAxis(xs).
		AddSeries("CaoJuan2009", cao).
		AddSeries("Arun2010", arun)

	maximize := charts.NewLine()
	maximize.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Topic count heuristics (maximize)"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)
	maximize.SetXAxis(xs).
		AddSeries("Deveaud2014", dev).
		AddSeries("LogLikelihood", ll)

	page := components.NewPage()
	page.AddCharts(minimize, maximize)
	return page.Render(w)
}

// RenderConvergence writes an HTML line chart of mean distance-to-BMU per
// training pass, one series per pass budget, so budgets (say 500 vs 1000)
// can be compared for diminishing returns.
func RenderConvergence(w io.Writer, series map[int][]float64) error {
	longest := 0
	for _, s := range series {
		if len(s) > longest {
			longest = len(s)
		}
	}
	if longest == 0 {
		return fmt.Errorf("no convergence series to chart")
	}
	xs := make([]string, longest)
	for i := range xs {
		xs[i] = strconv.Itoa(i + 1)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "SOM mean distance to nearest prototype"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)
	line.SetXAxis(xs)
	budgets := make([]int, 0, len(series))
	for b := range series {
		budgets = append(budgets, b)
	}
	sort.Ints(budgets)
	for _, budget := range budgets {
		s := series[budget]
		data := make([]opts.LineData, len(s))
		for i, v := range s {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(fmt.Sprintf("%d passes", budget), data)
	}
	return line.Render(w)
}

// WriteFile renders via fn into path.
func WriteFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return nil
}
