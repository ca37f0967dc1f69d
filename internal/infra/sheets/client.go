package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Client — тонкая обёртка над Google Sheets API.
// Все таблицы бота живут в одном spreadsheet, листы читаются по имени.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

func New(ctx context.Context, credentialsPath, spreadsheetID string) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// GetRows возвращает все строки листа как срезы строковых ячеек.
// Короткие строки (без хвостовых колонок) возвращаются как есть.
func (c *Client) GetRows(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get rows %q: %w", sheet, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, r := range resp.Values {
		row := make([]string, 0, len(r))
		for _, cell := range r {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRow дописывает строку в конец листа.
func (c *Client) AppendRow(ctx context.Context, sheet string, row []any) error {
	vr := &sheetsapi.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheet, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row %q: %w", sheet, err)
	}
	return nil
}
