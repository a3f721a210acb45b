// Package sheets wraps the Google Sheets v4 API behind the facade.
package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// Substitute record kinds.
const (
	KindSpreadsheets = "sheets/spreadsheets"
	KindValues       = "sheets/values"
)

// ValueInputRaw stores values exactly as given, without formula parsing.
const ValueInputRaw = "RAW"

// Facade exposes Sheets resources.
type Facade struct {
	deps google.Deps
	svc  *sheets.Service
}

// New creates the Sheets facade.
func New(ctx context.Context, deps google.Deps) (*Facade, error) {
	f := &Facade{deps: deps}
	if deps.Local {
		return f, nil
	}
	svc, err := google.NewSheetsService(ctx, deps)
	if err != nil {
		return nil, err
	}
	f.svc = svc
	return f, nil
}

// Service returns the generated client, nil when substituted.
func (f *Facade) Service() *sheets.Service {
	return f.svc
}

var spreadsheetIdentity = google.Identity[domain.Spreadsheet]{
	Get: func(s *domain.Spreadsheet) string { return s.ID },
	Set: func(s *domain.Spreadsheet, id string) { s.ID = id },
}

var valuesIdentity = google.Identity[domain.ValueRange]{
	Get: func(v *domain.ValueRange) string { return v.Range },
	Set: func(v *domain.ValueRange, r string) { v.Range = r },
}

// Spreadsheets returns the spreadsheets collection. Spreadsheets cannot be
// listed or deleted through the Sheets API; use the Drive facade.
func (f *Facade) Spreadsheets() google.Resource[domain.Spreadsheet] {
	return google.Resolve(f.deps, KindSpreadsheets, spreadsheetIdentity, f.remoteSpreadsheets)
}

// Values returns the cell ranges of one spreadsheet, addressed by A1 range.
// Insert appends rows after the table found at the item's range; Delete
// clears a range.
func (f *Facade) Values(spreadsheetID string) google.Resource[domain.ValueRange] {
	kind := KindValues + "/" + spreadsheetID
	return google.Resolve(f.deps, kind, valuesIdentity, func() google.Resource[domain.ValueRange] {
		return f.remoteValues(spreadsheetID)
	})
}

func (f *Facade) remoteSpreadsheets() google.Resource[domain.Spreadsheet] {
	calls := f.svc.Spreadsheets
	ops := google.Operations[*sheets.Spreadsheet]{
		Get: func(ctx context.Context, id string, req google.Request) (*sheets.Spreadsheet, error) {
			return calls.Get(id).Context(ctx).Do(req.CallOptions()...)
		},
		Insert: func(ctx context.Context, item *sheets.Spreadsheet, req google.Request) (*sheets.Spreadsheet, error) {
			item.SpreadsheetId = ""
			return calls.Create(item).Context(ctx).Do(req.CallOptions()...)
		},
		Update: func(ctx context.Context, id string, item *sheets.Spreadsheet, req google.Request) (*sheets.Spreadsheet, error) {
			props, mask := updatableProperties(item.Properties)
			if mask == "" {
				return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
			}
			resp, err := calls.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{
				Requests: []*sheets.Request{{
					UpdateSpreadsheetProperties: &sheets.UpdateSpreadsheetPropertiesRequest{
						Properties: props,
						Fields:     mask,
					},
				}},
				IncludeSpreadsheetInResponse: true,
			}).Context(ctx).Do(req.CallOptions()...)
			if err != nil {
				return nil, err
			}
			return resp.UpdatedSpreadsheet, nil
		},
		Download: func(ctx context.Context, id string, req google.Request) (*google.Download, error) {
			ss, err := calls.Get(id).Fields("properties.title", "sheets.properties.title").Context(ctx).Do()
			if err != nil {
				return nil, err
			}
			if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
				return nil, fmt.Errorf("%w: spreadsheet %s has no sheets", domain.ErrNotFound, id)
			}
			vr, err := calls.Values.Get(id, quoteSheet(ss.Sheets[0].Properties.Title)).Context(ctx).Do(req.CallOptions()...)
			if err != nil {
				return nil, err
			}
			name := id
			if ss.Properties != nil && ss.Properties.Title != "" {
				name = ss.Properties.Title
			}
			return csvDownload(name, vr.Values)
		},
	}
	return google.NewResourceAdapter(KindSpreadsheets, calls, ops, SpreadsheetMapper)
}

func (f *Facade) remoteValues(spreadsheetID string) google.Resource[domain.ValueRange] {
	values := f.svc.Spreadsheets.Values
	ops := google.Operations[*sheets.ValueRange]{
		Get: func(ctx context.Context, rng string, req google.Request) (*sheets.ValueRange, error) {
			return values.Get(spreadsheetID, rng).Context(ctx).Do(req.CallOptions()...)
		},
		Insert: func(ctx context.Context, item *sheets.ValueRange, req google.Request) (*sheets.ValueRange, error) {
			if item.Range == "" {
				return nil, fmt.Errorf("%w: append needs a range", domain.ErrInvalidInput)
			}
			resp, err := values.Append(spreadsheetID, item.Range, item).
				ValueInputOption(ValueInputRaw).
				IncludeValuesInResponse(true).
				Context(ctx).
				Do(req.CallOptions()...)
			if err != nil {
				return nil, err
			}
			if resp.Updates == nil {
				return nil, nil
			}
			return resp.Updates.UpdatedData, nil
		},
		Update: func(ctx context.Context, rng string, item *sheets.ValueRange, req google.Request) (*sheets.ValueRange, error) {
			item.Range = rng
			resp, err := values.Update(spreadsheetID, rng, item).
				ValueInputOption(ValueInputRaw).
				IncludeValuesInResponse(true).
				Context(ctx).
				Do(req.CallOptions()...)
			if err != nil {
				return nil, err
			}
			return resp.UpdatedData, nil
		},
		Delete: func(ctx context.Context, rng string, req google.Request) error {
			_, err := values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do(req.CallOptions()...)
			return err
		},
		Download: func(ctx context.Context, rng string, req google.Request) (*google.Download, error) {
			vr, err := values.Get(spreadsheetID, rng).Context(ctx).Do(req.CallOptions()...)
			if err != nil {
				return nil, err
			}
			return csvDownload(rng, vr.Values)
		},
	}
	return google.NewResourceAdapter(KindValues+"/"+spreadsheetID, values, ops, ValueRangeMapper)
}

// updatableProperties copies the writable spreadsheet properties and
// returns the matching field mask.
func updatableProperties(p *sheets.SpreadsheetProperties) (*sheets.SpreadsheetProperties, string) {
	if p == nil {
		return nil, ""
	}
	out := &sheets.SpreadsheetProperties{}
	var mask []string
	if p.Title != "" {
		out.Title = p.Title
		mask = append(mask, "title")
	}
	if p.Locale != "" {
		out.Locale = p.Locale
		mask = append(mask, "locale")
	}
	if len(mask) == 0 {
		return nil, ""
	}
	return out, strings.Join(mask, ",")
}

// quoteSheet turns a sheet title into an A1 range covering the whole sheet.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// EncodeCSV renders cell values as CSV.
func EncodeCSV(values [][]any) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range values {
		record := make([]string, len(row))
		for i, cell := range row {
			if cell != nil {
				record[i] = fmt.Sprint(cell)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func csvDownload(name string, values [][]any) (*google.Download, error) {
	data, err := EncodeCSV(values)
	if err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return &google.Download{
		Body:        io.NopCloser(bytes.NewReader(data)),
		ContentType: "text/csv",
		Name:        name + ".csv",
	}, nil
}
