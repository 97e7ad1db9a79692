package catalog

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// readSheet reads every row of the named sheet as string slices.
// An empty sheet name selects the first sheet.
func readSheet(path, sheetName string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open xlsx")
	}

	sheet, err := getSheet(f, sheetName)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("catalog: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("catalog: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
