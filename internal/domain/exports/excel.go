package exports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Solicitudes"

// WriteExcel renders the request ledger as a one-sheet workbook with a
// bold frozen header row.
func WriteExcel(w io.Writer, rows []Row) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	index, err := file.NewSheet(sheetName)
	if err != nil {
		return err
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheetName, cell, title); err != nil {
			return err
		}
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = file.SetCellStyle(sheetName, "A1", last, headerStyle)
	}
	if err := file.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	for i, row := range rows {
		for col, value := range row.values() {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	return file.Write(w)
}
