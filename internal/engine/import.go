package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

// ImportBatch applies parsed spreadsheet rows, one game per row, all tagged with one batch id.
//
// Rows are applied in order. A row whose player cannot be resolved or created is
// skipped and reported; earlier rows stay committed. When filterPlayerID is set,
// only rows that resolve to that roster player are applied.
func (e *Engine) ImportBatch(ctx context.Context, userID string, rows []models.ImportRow, filterPlayerID string) (*models.ImportSummary, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}

	// read through a transaction so a cached roster never decides whether a player exists
	var roster []models.Player
	err := e.store.InTx(ctx, userID, func(tx contracts.RecordTx) error {
		var err error
		roster, err = tx.ListPlayers(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	summary := &models.ImportSummary{}

	if filterPlayerID != "" {
		var target *models.Player
		for i := range roster {
			if roster[i].ID == filterPlayerID {
				target = &roster[i]
				break
			}
		}
		if target == nil {
			return nil, ErrPlayerNotFound
		}

		rows = filterRows(rows, roster, filterPlayerID)
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoRowsForPlayer, target.Name)
		}
		summary.FilterPlayer = target.Name
	}

	// a started batch runs to completion even if the caller goes away, within importTimeout
	detached := context.WithoutCancel(ctx)
	ctx, cancel := context.WithTimeout(detached, e.importTimeout)
	defer cancel()

	summary.BatchID = fmt.Sprintf("csv_%d", e.now().UnixMilli())
	created := make(map[string]*models.Player)

	defer func() {
		if summary.Imported > 0 || len(created) > 0 {
			e.notify(detached, userID, "import_batch", models.CollectionGames, models.CollectionPlayers)
		}
	}()

	for _, row := range rows {
		rowNum := row.Line

		if row.Err != nil {
			summary.AddError(fmt.Sprintf("Row %d: %v", rowNum, row.Err))
			continue
		}

		player := resolvePlayer(roster, row)
		key := models.MatchKey(row.PlayerName, row.JerseyNumber)
		if player == nil {
			player = created[key]
		}

		if player == nil {
			player, err = e.createImportedPlayer(ctx, userID, row)
			if err != nil {
				e.logger.Warn("Could not create player from import row", "user_id", userID, "row", rowNum, "error", err)
				summary.AddError(fmt.Sprintf("Row %d: Could not create player", rowNum))
				continue
			}
			created[key] = player
			summary.NewPlayers = len(created)
		}

		game := &models.Game{
			ID:        e.newID(),
			PlayerID:  player.ID,
			Date:      strings.TrimSpace(row.Date),
			Opponent:  strings.TrimSpace(row.Opponent),
			Stats:     row.Stats,
			BatchID:   summary.BatchID,
			CreatedAt: e.now().UTC(),
		}

		err = e.store.InTx(ctx, userID, func(tx contracts.RecordTx) error {
			return accumulate(ctx, tx, game, 1)
		})
		if err != nil {
			summary.Message = summary.BuildMessage()
			return summary, fmt.Errorf("import aborted at row %d after %d games: %w", rowNum, summary.Imported, err)
		}
		summary.Imported++
	}

	summary.Message = summary.BuildMessage()
	e.logger.Info("Import complete",
		"user_id", userID,
		"batch_id", summary.BatchID,
		"imported", summary.Imported,
		"failed", summary.Failed,
		"new_players", summary.NewPlayers)
	return summary, nil
}

func (e *Engine) createImportedPlayer(ctx context.Context, userID string, row models.ImportRow) (*models.Player, error) {
	name := strings.TrimSpace(row.PlayerName)
	if name == "" {
		return nil, fmt.Errorf("%w: row has no player name", ErrInvalidPlayer)
	}

	p := &models.Player{
		ID:           e.newID(),
		Name:         name,
		JerseyNumber: strings.TrimSpace(row.JerseyNumber),
		Position:     strings.TrimSpace(row.Position),
		CreatedAt:    e.now().UTC(),
	}

	err := e.store.InTx(ctx, userID, func(tx contracts.RecordTx) error {
		return tx.CreatePlayer(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// filterRows keeps rows that resolve, against the roster alone, to playerID
func filterRows(rows []models.ImportRow, roster []models.Player, playerID string) []models.ImportRow {
	out := make([]models.ImportRow, 0, len(rows))
	for _, row := range rows {
		if p := resolvePlayer(roster, row); p != nil && p.ID == playerID {
			out = append(out, row)
		}
	}
	return out
}

func resolvePlayer(roster []models.Player, row models.ImportRow) *models.Player {
	for i := range roster {
		if roster[i].Matches(row.PlayerName, row.JerseyNumber) {
			return &roster[i]
		}
	}
	return nil
}
