package domain

// Spreadsheet is the local model of a Google Sheets spreadsheet.
type Spreadsheet struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Locale string  `json:"locale,omitempty"`
	URL    string  `json:"url,omitempty"`
	Sheets []Sheet `json:"sheets,omitempty"`
}

// Sheet is a single tab within a spreadsheet.
type Sheet struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Index       int64  `json:"index"`
	RowCount    int64  `json:"row_count,omitempty"`
	ColumnCount int64  `json:"column_count,omitempty"`
}

// ValueRange is a rectangular block of cell values addressed in A1 notation.
type ValueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values,omitempty"`
}
