package transfer

import (
	"fmt"
	"io"

	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/xuri/excelize/v2"
)

const linksSheet = "Links"

// ExportXLSX writes the links table of p as a workbook. Unlike the CSV it
// also carries the click counters, since the workbook is a report and is
// never imported back.
func ExportXLSX(w io.Writer, p domain.Place) error {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), linksSheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	header := append(append([]string{}, CSVHeader...), "Clicks")
	if err := xl.SetSheetRow(linksSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	var clicks []int64
	for _, t := range []domain.LinkType{domain.LinkTypeBooking, domain.LinkTypeSocial, domain.LinkTypeSupport} {
		for _, l := range p.Links(t) {
			clicks = append(clicks, l.Clicks)
		}
	}
	for i, row := range LinkRows(p) {
		record := make([]interface{}, 0, len(row)+1)
		for _, c := range row {
			record = append(record, c)
		}
		record = append(record, clicks[i])
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := xl.SetSheetRow(linksSheet, cell, &record); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}

	if _, err := xl.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}
