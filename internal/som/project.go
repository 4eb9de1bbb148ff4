// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package som

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"

	"github.com/meshintel/topic-atlas/pkg/types"
)

// jitterSpread is the maximum offset, in cell units, applied on each axis
// to de-overlap co-located documents.
const jitterSpread = 0.4

// Place assigns every document to its winning node and attaches the
// dominant topic and a reproducible jitter. data must be the scaled
// feature matrix in the same row order as result.DocIDs.
func Place(g *Grid, data [][]float64, result types.TopicResult, jitterSeed int64) ([]types.Placement, error) {
	if len(data) != len(result.DocIDs) {
		return nil, fmt.Errorf("feature rows (%d) do not match documents (%d)", len(data), len(result.DocIDs))
	}

	rnd := rand.New(rand.NewSource(jitterSeed))
	placements := make([]types.Placement, len(data))
	for i, v := range data {
		row, col := g.Nearest(v)
		placements[i] = types.Placement{
			DocID:         result.DocIDs[i],
			Row:           row,
			Col:           col,
			X:             float64(col) + (rnd.Float64()*2-1)*jitterSpread,
			Y:             float64(row) + (rnd.Float64()*2-1)*jitterSpread,
			DominantTopic: result.DominantTopic(i),
		}
	}
	return placements, nil
}

// ReadCSV reads a placement table previously written by WriteCSV.
func ReadCSV(r io.Reader) ([]types.Placement, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != 6 || header[0] != "doc_id" {
		return nil, fmt.Errorf("unexpected placement header %v", header)
	}

	var placements []types.Placement
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: node_row: %w", line, err)
		}
		col, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: node_col: %w", line, err)
		}
		x, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: x: %w", line, err)
		}
		y, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: y: %w", line, err)
		}
		topic, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, fmt.Errorf("line %d: dominant_topic: %w", line, err)
		}
		placements = append(placements, types.Placement{
			DocID: rec[0], Row: row, Col: col, X: x, Y: y, DominantTopic: topic,
		})
	}
	return placements, nil
}

// WriteCSV writes the placement table in the flat layout the external
// visualization tool imports.
func WriteCSV(w io.Writer, placements []types.Placement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"doc_id", "node_row", "node_col", "x", "y", "dominant_topic"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, p := range placements {
		rec := []string{
			p.DocID,
			strconv.Itoa(p.Row),
			strconv.Itoa(p.Col),
			strconv.FormatFloat(p.X, 'f', 4, 64),
			strconv.FormatFloat(p.Y, 'f', 4, 64),
			strconv.Itoa(p.DominantTopic),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
