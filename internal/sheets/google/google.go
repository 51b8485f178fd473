// Package google exports transactions to a Google Sheet. Rows carry the
// transaction ID in the first column so deletes can find them again.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tally/internal/core"
	ports "tally/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Ensure interface conformance
var (
	_ ports.TransactionWriter  = (*Client)(nil)
	_ ports.TransactionDeleter = (*Client)(nil)
)

type Options struct {
	SpreadsheetID string
	SheetName     string
	// CredentialsJSON takes precedence over CredentialsFile; with neither
	// set, application default credentials apply.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := opts.SheetName
	if sheetName == "" {
		sheetName = "Transactions"
	}

	var clientOpts []goption.ClientOption
	switch {
	case opts.CredentialsJSON != "":
		clientOpts = append(clientOpts, goption.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, goption.WithCredentialsFile(opts.CredentialsFile))
	}

	svc, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Append writes one transaction as a row: id, date, description, amount,
// category, type.
func (c *Client) Append(ctx context.Context, tx core.Transaction) (string, error) {
	row := []interface{}{
		tx.ID,
		tx.Date.String(),
		tx.Description,
		core.FormatCurrency(tx.Amount),
		tx.Category,
		string(tx.Type),
	}

	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!A:F", &gsheet.ValueRange{
			Values: [][]interface{}{row},
		}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append row: %w", err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Exported transaction to sheet",
		"transaction_id", tx.ID, "range", ref)
	return ref, nil
}

// Delete finds the row whose first column holds the transaction ID and
// removes it. Missing rows are fine: the export may never have happened.
func (c *Client) Delete(ctx context.Context, transactionID string) error {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName+"!A:A").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("read id column: %w", err)
	}

	rowIndex := -1
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == transactionID {
			rowIndex = i
			break
		}
	}
	if rowIndex < 0 {
		slog.InfoContext(ctx, "Transaction not present in sheet, nothing to delete",
			"transaction_id", transactionID)
		return nil
	}

	sheetID, err := c.sheetID(ctx)
	if err != nil {
		return err
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex),
					EndIndex:   int64(rowIndex + 1),
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete row: %w", err)
	}

	slog.InfoContext(ctx, "Removed exported transaction from sheet",
		"transaction_id", transactionID, "row", rowIndex)
	return nil
}

func (c *Client) sheetID(ctx context.Context) (int64, error) {
	sp, err := c.svc.Spreadsheets.
		Get(c.spreadsheetID).
		Fields("sheets(properties(sheetId,title))").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, s := range sp.Sheets {
		if s.Properties != nil && s.Properties.Title == c.sheetName {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", c.sheetName)
}
