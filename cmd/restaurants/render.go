package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/zatekoja/zomavan/internal/application/services"
	"github.com/zatekoja/zomavan/internal/domain/entities"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type subzoneOutput struct {
	SubzoneID   string                    `json:"subzone_id" yaml:"subzone_id"`
	Restaurants []entities.RestaurantView `json:"restaurants" yaml:"restaurants"`
	Error       string                    `json:"error,omitempty" yaml:"error,omitempty"`
}

func validFormat(format string) bool {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return true
	}
	return false
}

func render(w io.Writer, format string, results []services.SubzoneResult) error {
	out := make([]subzoneOutput, 0, len(results))
	for _, result := range results {
		entry := subzoneOutput{SubzoneID: result.SubzoneID, Restaurants: entities.RestaurantViews(result.Restaurants)}
		if result.Err != nil {
			entry.Error = result.Err.Error()
		}
		out = append(out, entry)
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case formatTable:
		return renderTable(w, out)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func renderTable(w io.Writer, out []subzoneOutput) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBZONE\tID\tNAME\tADDRESS")
	for _, entry := range out {
		if entry.Error != "" {
			fmt.Fprintf(tw, "%s\t-\terror: %s\t\n", entry.SubzoneID, entry.Error)
			continue
		}
		for _, r := range entry.Restaurants {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", entry.SubzoneID, r.ID, r.Name, r.Address)
		}
	}
	return tw.Flush()
}
