package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"startupcli/internal/exporter"
)

// printer writes command results as aligned text tables or as JSON.
type printer struct {
	out  io.Writer
	json bool
}

// section is one titled table of a text result.
type section struct {
	Title string
	Table exporter.Table
}

// print writes v as JSON, or the sections as text tables.
func (p printer) print(v interface{}, sections ...section) error {
	if p.json {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(p.out)
		}
		if err := p.table(s); err != nil {
			return err
		}
	}
	return nil
}

func (p printer) table(s section) error {
	if s.Title != "" {
		fmt.Fprintln(p.out, s.Title)
		fmt.Fprintln(p.out, strings.Repeat("-", len(s.Title)))
	}

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(s.Table.Headers, "\t"))
	for _, row := range s.Table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// lines prints one value per line, or a JSON array.
func (p printer) lines(values []string) error {
	if p.json {
		return p.print(values)
	}
	for _, v := range values {
		fmt.Fprintln(p.out, v)
	}
	return nil
}
