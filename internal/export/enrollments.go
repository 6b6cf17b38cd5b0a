package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"student_mgmt/internal/model"

	"github.com/xuri/excelize/v2"
)

const enrollmentsSheet = "Enrollments"

var enrollmentHeader = []string{"ID", "Student", "Email", "Course", "Status", "Enrolled At", "Updated At"}

func enrollmentRows(items []model.EnrollmentDetail) [][]string {
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.StudentUsername,
			e.StudentEmail,
			e.CourseTitle,
			string(e.Status),
			e.EnrolledAt.Format(time.RFC3339),
			e.UpdatedAt.Format(time.RFC3339),
		})
	}
	return rows
}

// EnrollmentsCSV renders enrollments as CSV with a header row
func EnrollmentsCSV(items []model.EnrollmentDetail) (*bytes.Buffer, error) {
	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	if err := writer.Write(enrollmentHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(enrollmentRows(items)); err != nil {
		return nil, fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return buffer, nil
}

// EnrollmentsXLSX renders enrollments as a single-sheet workbook with a bold, filterable header
func EnrollmentsXLSX(items []model.EnrollmentDetail) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", enrollmentsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range enrollmentHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellStr(enrollmentsSheet, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end, _ := excelize.CoordinatesToCellName(len(enrollmentHeader), 1)
	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(enrollmentsSheet, "A1", end, bold)
	_ = f.AutoFilter(enrollmentsSheet, "A1:"+end, nil)

	rows := enrollmentRows(items)
	for r, row := range rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellStr(enrollmentsSheet, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// width from the header and the first rows, kept within [12, 40]
	for c := 1; c <= len(enrollmentHeader); c++ {
		width := len(enrollmentHeader[c-1])
		for r := 0; r < min(50, len(rows)); r++ {
			if l := len(rows[r][c-1]); l > width {
				width = l
			}
		}
		w := max(12, min(40, float64(width)*0.9))
		name, _ := excelize.ColumnNumberToName(c)
		_ = f.SetColWidth(enrollmentsSheet, name, name, w)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
