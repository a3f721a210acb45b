package sheets

import (
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// SpreadsheetMapper converts between sheets.Spreadsheet and domain.Spreadsheet.
var SpreadsheetMapper google.Mapper[*sheets.Spreadsheet, domain.Spreadsheet] = google.MapperFuncs[*sheets.Spreadsheet, domain.Spreadsheet]{
	ToLocal: func(s *sheets.Spreadsheet) *domain.Spreadsheet {
		out := &domain.Spreadsheet{ID: s.SpreadsheetId, URL: s.SpreadsheetUrl}
		if s.Properties != nil {
			out.Title = s.Properties.Title
			out.Locale = s.Properties.Locale
		}
		for _, sh := range s.Sheets {
			if sh == nil || sh.Properties == nil {
				continue
			}
			local := domain.Sheet{
				ID:    sh.Properties.SheetId,
				Title: sh.Properties.Title,
				Index: sh.Properties.Index,
			}
			if g := sh.Properties.GridProperties; g != nil {
				local.RowCount = g.RowCount
				local.ColumnCount = g.ColumnCount
			}
			out.Sheets = append(out.Sheets, local)
		}
		return out
	},
	ToRemote: func(s *domain.Spreadsheet) *sheets.Spreadsheet {
		out := &sheets.Spreadsheet{
			SpreadsheetId: s.ID,
			Properties:    &sheets.SpreadsheetProperties{Title: s.Title, Locale: s.Locale},
		}
		for _, sh := range s.Sheets {
			props := &sheets.SheetProperties{Title: sh.Title, Index: sh.Index}
			if sh.RowCount > 0 || sh.ColumnCount > 0 {
				props.GridProperties = &sheets.GridProperties{RowCount: sh.RowCount, ColumnCount: sh.ColumnCount}
			}
			out.Sheets = append(out.Sheets, &sheets.Sheet{Properties: props})
		}
		return out
	},
}

// ValueRangeMapper converts between sheets.ValueRange and domain.ValueRange.
var ValueRangeMapper google.Mapper[*sheets.ValueRange, domain.ValueRange] = google.MapperFuncs[*sheets.ValueRange, domain.ValueRange]{
	ToLocal: func(v *sheets.ValueRange) *domain.ValueRange {
		return &domain.ValueRange{Range: v.Range, Values: v.Values}
	},
	ToRemote: func(v *domain.ValueRange) *sheets.ValueRange {
		return &sheets.ValueRange{Range: v.Range, MajorDimension: "ROWS", Values: v.Values}
	},
}
