package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/fetchora/fetchora/internal/models"
)

const excelSheet = "Sheet1"

func renderExcel(records []models.CommentRecord) (*File, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := (&models.CommentRecord{}).CSVHeader()
	headerRow := make([]any, len(header))
	for i, col := range header {
		headerRow[i] = col
	}
	if err := f.SetSheetRow(excelSheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("writing xlsx header: %w", err)
	}

	for i := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("computing xlsx cell: %w", err)
		}
		r := &records[i]
		row := []any{r.Author, r.Text, r.PublishedAt, r.LikeCount, r.Sentiment}
		if err := f.SetSheetRow(excelSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("writing xlsx row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing xlsx: %w", err)
	}

	return &File{
		Name:        baseFilename + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}
