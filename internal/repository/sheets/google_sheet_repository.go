package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamefall/recipecost/internal/config"
	"github.com/mamefall/recipecost/internal/domain/models"
)

const batchLedgerRange = "Batches!A:I"

// GoogleSheetRepository mirrors finalized batches into a spreadsheet ledger
// using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// batchRow flattens a finalized batch into one ledger row.
func batchRow(recipe models.Recipe, batch models.ProductionBatch, dishName string) []interface{} {
	return []interface{}{
		batch.CreatedAt.Format("2006-01-02 15:04:05"),
		batch.BatchID,
		batch.DishID,
		dishName,
		recipe.ID,
		batch.ProducedQty,
		batch.TotalCost,
		batch.CostPerUnit,
		batch.SellingPrice,
	}
}

// AppendBatch mirrors a finalized production batch into the costing ledger
// sheet. The mirror is an audit trail beside the authoritative MongoDB
// records, never a source of truth.
func (r *GoogleSheetRepository) AppendBatch(ctx context.Context, recipe models.Recipe, batch models.ProductionBatch, dishName string) error {
	return r.WriteRow(ctx, batchLedgerRange, batchRow(recipe, batch, dishName))
}
