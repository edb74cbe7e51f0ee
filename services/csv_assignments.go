package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"condo-management-server/models"

	"gorm.io/gorm"
)

// Canonical export column order. Import accepts either start_date/end_date
// or effective_start/effective_end; status is always derived, never read.
var csvExportFields = []string{
	"condo_code",
	"unit_number",
	"parking_code",
	"status",
	"effective_start",
	"effective_end",
}

var csvRequiredFields = []string{"condo_code", "unit_number", "parking_code"}

var csvTruthy = map[string]bool{"1": true, "true": true, "yes": true, "y": true, "t": true}

const dateLayout = "2006-01-02"

// errDryRunRollback forces the surrounding transaction to roll back after a
// dry-run import has been fully evaluated.
var errDryRunRollback = errors.New("dry run rollback")

// RawAssignmentRow is one parsed CSV line, produced by the header validator
// before any business logic runs.
type RawAssignmentRow struct {
	LineNumber   int
	CondoCode    string
	UnitNumber   string
	ParkingCode  string
	IsPrimaryRaw string
	StartRaw     string
	EndRaw       string
	Original     map[string]string
}

type ImportRowError struct {
	RowNumber int               `json:"row_number"`
	Error     string            `json:"error"`
	Row       map[string]string `json:"row"`
}

type ImportResult struct {
	Created   int              `json:"created"`
	Updated   int              `json:"updated"`
	Errors    int              `json:"errors"`
	TotalRows int              `json:"total_rows"`
	ErrorRows []ImportRowError `json:"error_rows"`
	ErrorsCSV string           `json:"errors_csv"`
}

func parseCSVDate(val string) (*time.Time, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, val)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", val)
	}
	return &d, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// ExportAssignments builds the canonical CSV of current assignments, ordered
// by (condo code, unit number, spot code, start date). Status is derived
// against the supplied day: active while the end date is unset or not yet
// past.
func ExportAssignments(db *gorm.DB, today time.Time) (string, []byte, error) {
	var assignments []models.UnitParkingAssignment
	if err := db.Preload("Unit.Condo").Preload("ParkingSpot").Find(&assignments).Error; err != nil {
		return "", nil, err
	}

	sort.Slice(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.Unit.Condo.Code != b.Unit.Condo.Code {
			return a.Unit.Condo.Code < b.Unit.Condo.Code
		}
		if a.Unit.UnitNumber != b.Unit.UnitNumber {
			return a.Unit.UnitNumber < b.Unit.UnitNumber
		}
		if a.ParkingSpot.Code != b.ParkingSpot.Code {
			return a.ParkingSpot.Code < b.ParkingSpot.Code
		}
		return a.StartDate.Before(b.StartDate)
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(csvExportFields)
	for i := range assignments {
		a := &assignments[i]
		status := "inactive"
		if a.EndDate == nil || !a.EndDate.Before(today) {
			status = "active"
		}
		start := a.StartDate
		w.Write([]string{
			a.Unit.Condo.Code,
			a.Unit.UnitNumber,
			a.ParkingSpot.Code,
			status,
			formatDate(&start),
			formatDate(a.EndDate),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, err
	}
	return "assignments.csv", buf.Bytes(), nil
}

// parseAssignmentCSV validates the header and splits the payload into raw
// rows. The second return value lists missing required columns; when it is
// non-empty no rows are returned.
func parseAssignmentCSV(csvText string) ([]RawAssignmentRow, []string, error) {
	csvText = strings.TrimPrefix(csvText, "\uFEFF") // tolerate a UTF-8 BOM
	r := csv.NewReader(strings.NewReader(csvText))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, csvRequiredFields, nil
	}
	if err != nil {
		return nil, nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, req := range csvRequiredFields {
		if !present[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, missing, nil
	}

	var rows []RawAssignmentRow
	line := 1 // header is line 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		row := RawAssignmentRow{LineNumber: line, Original: map[string]string{}}
		if err != nil {
			// a malformed line is a row-scoped problem, not a batch failure
			row.Original["_parse_error"] = err.Error()
			rows = append(rows, row)
			continue
		}
		for i, h := range header {
			if i < len(record) {
				row.Original[h] = record[i]
			}
		}
		row.CondoCode = strings.TrimSpace(row.Original["condo_code"])
		row.UnitNumber = strings.TrimSpace(row.Original["unit_number"])
		row.ParkingCode = strings.TrimSpace(row.Original["parking_code"])
		row.IsPrimaryRaw = strings.TrimSpace(row.Original["is_primary"])
		// start_date/end_date win over effective_start/effective_end
		row.StartRaw = strings.TrimSpace(row.Original["start_date"])
		if row.StartRaw == "" {
			row.StartRaw = strings.TrimSpace(row.Original["effective_start"])
		}
		row.EndRaw = strings.TrimSpace(row.Original["end_date"])
		if row.EndRaw == "" {
			row.EndRaw = strings.TrimSpace(row.Original["effective_end"])
		}
		rows = append(rows, row)
	}
	return rows, nil, nil
}

// ImportAssignments upserts assignments from CSV text. Rows are matched on
// the natural key (unit, parking spot): unknown pairs are created, known
// pairs updated only where the CSV supplied a differing value. Row failures
// are reported, never fatal; only missing required headers fail the whole
// batch. Everything runs in one transaction, rolled back when dryRun is set
// so repeated dry runs stay side-effect free.
func ImportAssignments(db *gorm.DB, csvText string, dryRun bool, today time.Time) (*ImportResult, error) {
	rows, missing, err := parseAssignmentCSV(csvText)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		res := &ImportResult{
			Errors: 1,
			ErrorRows: []ImportRowError{{
				RowNumber: 0,
				Error:     "Missing required columns: " + strings.Join(missing, ", "),
				Row:       map[string]string{},
			}},
		}
		res.ErrorsCSV = buildErrorsCSV(res.ErrorRows)
		return res, nil
	}

	res := &ImportResult{ErrorRows: []ImportRowError{}}
	txErr := db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			res.TotalRows++
			if err := importRow(tx, &rows[i], dryRun, today, res); err != nil {
				res.Errors++
				res.ErrorRows = append(res.ErrorRows, ImportRowError{
					RowNumber: rows[i].LineNumber,
					Error:     err.Error(),
					Row:       rows[i].Original,
				})
			}
		}
		if dryRun {
			return errDryRunRollback
		}
		return nil
	})
	if txErr != nil && !errors.Is(txErr, errDryRunRollback) {
		return nil, txErr
	}

	if res.Errors > 0 {
		res.ErrorsCSV = buildErrorsCSV(res.ErrorRows)
	}
	return res, nil
}

func importRow(tx *gorm.DB, row *RawAssignmentRow, dryRun bool, today time.Time, res *ImportResult) error {
	if msg, ok := row.Original["_parse_error"]; ok {
		return errors.New(msg)
	}
	if row.CondoCode == "" || row.UnitNumber == "" || row.ParkingCode == "" {
		return errors.New("condo_code, unit_number, parking_code are required")
	}

	var condo models.Condo
	if err := tx.Where("code = ?", row.CondoCode).First(&condo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("Condo not found: code=%s", row.CondoCode)
		}
		return err
	}

	var unit models.Unit
	if err := tx.Where("condo_id = ? AND unit_number = ?", condo.ID, row.UnitNumber).First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("Unit not found: condo=%s unit_number=%s", row.CondoCode, row.UnitNumber)
		}
		return err
	}

	var spot models.ParkingSpot
	if err := tx.Where("condo_id = ? AND code = ?", condo.ID, row.ParkingCode).First(&spot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("Parking spot not found: condo=%s code=%s", row.CondoCode, row.ParkingCode)
		}
		return err
	}

	var isPrimary *bool
	if row.IsPrimaryRaw != "" {
		v := csvTruthy[strings.ToLower(row.IsPrimaryRaw)]
		isPrimary = &v
	}

	startDate, err := parseCSVDate(row.StartRaw)
	if err != nil {
		return err
	}
	endDate, err := parseCSVDate(row.EndRaw)
	if err != nil {
		return err
	}

	var existing models.UnitParkingAssignment
	err = tx.Where("unit_id = ? AND parking_spot_id = ?", unit.ID, spot.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		a := models.UnitParkingAssignment{
			UnitID:        unit.ID,
			ParkingSpotID: spot.ID,
			StartDate:     today,
			EndDate:       endDate,
		}
		if startDate != nil {
			a.StartDate = *startDate
		}
		if isPrimary != nil {
			a.IsPrimary = *isPrimary
		}
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		res.Created++
		return nil
	}
	if err != nil {
		return err
	}

	changed := false
	if startDate != nil && !sameDate(existing.StartDate, *startDate) {
		existing.StartDate = *startDate
		changed = true
	}
	if endDate != nil && (existing.EndDate == nil || !sameDate(*existing.EndDate, *endDate)) {
		existing.EndDate = endDate
		changed = true
	}
	if isPrimary != nil && existing.IsPrimary != *isPrimary {
		existing.IsPrimary = *isPrimary
		changed = true
	}
	if changed {
		if err := tx.Model(&existing).Select("start_date", "end_date", "is_primary").Updates(map[string]interface{}{
			"start_date": existing.StartDate,
			"end_date":   existing.EndDate,
			"is_primary": existing.IsPrimary,
		}).Error; err != nil {
			return err
		}
		res.Updated++
	}
	return nil
}

func buildErrorsCSV(errorRows []ImportRowError) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"row_number", "error", "condo_code", "unit_number", "parking_code"})
	for _, r := range errorRows {
		w.Write([]string{
			strconv.Itoa(r.RowNumber),
			r.Error,
			strings.TrimSpace(r.Row["condo_code"]),
			strings.TrimSpace(r.Row["unit_number"]),
			strings.TrimSpace(r.Row["parking_code"]),
		})
	}
	w.Flush()
	return buf.String()
}
