package transfer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/domain"
	"github.com/wadjakorntonsri/booking-bridge/pkg/core/editor"
)

// CSVHeader is the first row of a links CSV.
var CSVHeader = []string{"Link Type", "Platform", "Display Name", "URL", "Is Active", "Start Date", "End Date"}

var csvTypeNames = map[domain.LinkType]string{
	domain.LinkTypeBooking: "Booking",
	domain.LinkTypeSocial:  "Social",
	domain.LinkTypeSupport: "Support",
}

// LinkRows flattens the place's links into table rows, booking first, then
// social, then support.
func LinkRows(p domain.Place) [][]string {
	var rows [][]string
	for _, t := range []domain.LinkType{domain.LinkTypeBooking, domain.LinkTypeSocial, domain.LinkTypeSupport} {
		for _, l := range p.Links(t) {
			active := "No"
			if l.IsActive {
				active = "Yes"
			}
			rows = append(rows, []string{
				csvTypeNames[t],
				l.Platform,
				l.Label(),
				l.URL,
				active,
				FormatDate(l.StartDate),
				FormatDate(l.EndDate),
			})
		}
	}
	return rows
}

// ExportCSV writes the links table of p with every cell quoted.
func ExportCSV(w io.Writer, p domain.Place) error {
	bw := bufio.NewWriter(w)
	for _, row := range append([][]string{CSVHeader}, LinkRows(p)...) {
		for i, cell := range row {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(`"` + strings.ReplaceAll(cell, `"`, `""`) + `"`)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ImportCSV reads a links CSV. The first row is the header and at least one
// data row is required. Rows that cannot be used are skipped with a warning.
func ImportCSV(r io.Reader) (LinkSet, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var (
		set      LinkSet
		warnings []string
		rows     int
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			rows++
			warnings = append(warnings, fmt.Sprintf("skipping invalid line %d", perr.StartLine))
			continue
		}
		if err != nil {
			return LinkSet{}, nil, fmt.Errorf("%w: %v", domain.ErrImportMalformed, err)
		}
		if isBlank(record) {
			continue
		}
		rows++
		if rows == 1 {
			continue
		}
		line, _ := cr.FieldPos(0)

		if len(record) < 4 {
			warnings = append(warnings, fmt.Sprintf("skipping invalid line %d", line))
			continue
		}
		cells := make([]string, 7)
		for i := range cells {
			if i < len(record) {
				cells[i] = strings.TrimSpace(record[i])
			}
		}

		platform := editor.Sanitize(cells[1])
		if platform == "" || !domain.IsValidURL(cells[3]) {
			warnings = append(warnings, fmt.Sprintf("skipping invalid link at line %d", line))
			continue
		}
		display := editor.Sanitize(cells[2])
		if display == "" {
			display = platform
		}
		l := domain.Link{
			ID:          uuid.NewString(),
			Platform:    platform,
			DisplayName: display,
			URL:         cells[3],
			IsActive:    strings.EqualFold(cells[4], "yes"),
			ShowIcon:    true,
		}
		t, err := domain.ParseLinkType(cells[0])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("unknown link type %q at line %d, defaulting to booking", cells[0], line))
			t = domain.LinkTypeBooking
		}
		if tpl, ok := domain.FindPlatform(t, platform); ok {
			l.Icon = tpl.Icon
		}
		var warn []string
		l.StartDate, warn = parseDate(&cells[5], fmt.Sprintf("start date at line %d", line), warn)
		l.EndDate, warn = parseDate(&cells[6], fmt.Sprintf("end date at line %d", line), warn)
		warnings = append(warnings, warn...)
		set.add(t, l)
	}

	if rows < 2 {
		return LinkSet{}, nil, fmt.Errorf("%w: CSV file must contain at least a header row and one data row", domain.ErrImportMalformed)
	}
	return set, warnings, nil
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
