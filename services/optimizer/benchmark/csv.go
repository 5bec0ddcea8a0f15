// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package benchmark

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
)

// Columns of the results table. The Score column is optional on import.
var csvHeader = []string{
	"Structure",
	"DataSize",
	"InsertTime(ms)",
	"SearchTime(ms)",
	"DeleteTime(ms)",
	"TotalTime(ms)",
	"MemoryUsed(bytes)",
	"MemoryPerElement(bytes)",
	"Score",
}

const (
	legacyColumns = 8
	binaryProbe   = 1024
)

// WriteCSV writes results as a table, one row per structure, ordered by name.
//
// Numbers always use '.' as the decimal separator.
func WriteCSV(w io.Writer, results map[string]*Metrics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	names := maps.Keys(results)
	sort.Strings(names)
	for _, name := range names {
		m := results[name]
		row := []string{
			m.Structure,
			strconv.Itoa(m.DataSize),
			formatFloat(m.InsertTime),
			formatFloat(m.SearchTime),
			formatFloat(m.DeleteTime),
			formatFloat(m.TotalTime),
			strconv.FormatInt(m.MemoryBytes, 10),
			formatFloat(m.MemoryPerElement()),
			formatFloat(m.Score),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %s: %w", name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ImportResult is the outcome of ReadCSV.
type ImportResult struct {
	// Rows holds the parsed metrics sorted by Score, highest first, ties by
	// name. Rows without a Score column get 1000 / (TotalTime + 1).
	Rows []*Metrics

	// Failed counts rows that were skipped.
	Failed int
}

// Metrics returns the rows keyed by structure name. Later duplicates win.
func (r *ImportResult) Metrics() map[string]*Metrics {
	out := make(map[string]*Metrics, len(r.Rows))
	for _, m := range r.Rows {
		out[m.Structure] = m
	}
	return out
}

// ReadCSV parses a results table.
//
// Description:
//
//	Accepts the 9-column format written by WriteCSV and the legacy
//	8-column format without Score. The delimiter is ',' unless the header
//	only contains ';'. Blank lines are ignored. Rows with fewer than eight
//	fields or unparsable numbers are counted in Failed and skipped.
//	Numbers may use '.' or ',' as decimal separator.
//
// Outputs:
//
//	*ImportResult - Parsed rows.
//	error - ErrBinaryFile, ErrMissingHeader, or ErrImportFailed when no
//	        row parsed.
func ReadCSV(r io.Reader) (*ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}
	if bytes.IndexByte(raw[:min(len(raw), binaryProbe)], 0) >= 0 {
		return nil, ErrBinaryFile
	}

	headerEnd := bytes.IndexByte(raw, '\n')
	if headerEnd < 0 {
		headerEnd = len(raw)
	}
	header := string(raw[:headerEnd])
	if !strings.Contains(header, "Structure") && !strings.Contains(header, "DataSize") {
		return nil, ErrMissingHeader
	}

	cr := csv.NewReader(bytes.NewReader(raw[min(headerEnd+1, len(raw)):]))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	if strings.Contains(header, ";") && !strings.Contains(header, ",") {
		cr.Comma = ';'
	}

	result := &ImportResult{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Failed++
			continue
		}
		m, ok := parseRow(record)
		if !ok {
			result.Failed++
			continue
		}
		result.Rows = append(result.Rows, m)
	}

	if len(result.Rows) == 0 {
		return nil, fmt.Errorf("%w: no valid performance data, %d rows failed numeric parsing",
			ErrImportFailed, result.Failed)
	}

	sort.SliceStable(result.Rows, func(i, j int) bool {
		a, b := result.Rows[i], result.Rows[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Structure < b.Structure
	})
	return result, nil
}

func parseRow(record []string) (*Metrics, bool) {
	if len(record) < legacyColumns {
		return nil, false
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	if record[0] == "" {
		return nil, false
	}

	size, err := strconv.Atoi(record[1])
	if err != nil {
		return nil, false
	}
	m := &Metrics{Structure: record[0], DataSize: size}

	fields := []*float64{&m.InsertTime, &m.SearchTime, &m.DeleteTime, &m.TotalTime}
	for i, dst := range fields {
		v, ok := parseDecimal(record[2+i])
		if !ok {
			return nil, false
		}
		*dst = v
	}
	mem, ok := parseDecimal(record[6])
	if !ok {
		return nil, false
	}
	m.MemoryBytes = int64(mem)

	if len(record) > legacyColumns {
		score, ok := parseDecimal(record[8])
		if !ok {
			return nil, false
		}
		m.Score = score
	} else {
		m.Score = 1000 / (m.TotalTime + 1)
	}
	return m, true
}

// parseDecimal tries '.' first and then ',' as decimal separator.
func parseDecimal(s string) (float64, bool) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		if v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
