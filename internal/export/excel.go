package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Bookings"

// Reporter writes booking reports as Excel files.
type Reporter struct {
	dir    string
	logger *zerolog.Logger
}

func NewReporter(dir string, logger *zerolog.Logger) *Reporter {
	return &Reporter{dir: dir, logger: logger}
}

// WriteBookingsReport создает Excel файл со всеми бронированиями
func (r *Reporter) WriteBookingsReport(bookings []*models.Booking) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Item ID", "Item", "Booker ID", "Booker",
		"Start", "End", "Status", "Created At", "Updated At",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(reportSheet, cell, header)
		_ = f.SetCellStyle(reportSheet, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 2
		values := []interface{}{
			booking.ID,
			booking.ItemID,
			booking.ItemName,
			booking.BookerID,
			booking.BookerName,
			booking.Start.UTC().Format("2006-01-02 15:04:05"),
			booking.End.UTC().Format("2006-01-02 15:04:05"),
			booking.Status,
			booking.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			booking.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(reportSheet, cell, value)
		}

		if styleID, err := r.statusStyle(f, booking.Status); err == nil {
			statusCell, _ := excelize.CoordinatesToCellName(8, row)
			_ = f.SetCellStyle(reportSheet, statusCell, statusCell, styleID)
		}
	}

	_ = f.SetColWidth(reportSheet, "A", "B", 10)
	_ = f.SetColWidth(reportSheet, "C", "C", 25)
	_ = f.SetColWidth(reportSheet, "D", "D", 10)
	_ = f.SetColWidth(reportSheet, "E", "E", 20)
	_ = f.SetColWidth(reportSheet, "F", "J", 20)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(r.dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	r.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}

// statusStyle возвращает стиль ячейки статуса
func (r *Reporter) statusStyle(f *excelize.File, status string) (int, error) {
	color := "#FFFFFF"
	switch status {
	case models.StatusApproved:
		color = "#C6EFCE"
	case models.StatusWaiting:
		color = "#FFEB9C"
	case models.StatusRejected:
		color = "#FFC7CE"
	}
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}
