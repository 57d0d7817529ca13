package export

import (
	"github.com/xuri/excelize/v2"
)

// Workbook serializes header-keyed records into an xlsx file with a header
// row, columns laid out in spec order.
func Workbook(sheet string, cols []Column, records []map[string]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, c.Header); err != nil {
			return nil, err
		}
	}

	for ri, rec := range records {
		for ci, c := range cols {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, rec[c.Header]); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
