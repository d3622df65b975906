package repository

import (
	"context"
	"database/sql"
	"fmt"

	"SwingSight/internal/domain/models"
	domrepo "SwingSight/internal/domain/repository"
	pkgch "SwingSight/pkg/clickhouse"
)

const signalsTable = "swingsight.signals"

// CHSignalJournal persists signal events in ClickHouse for later review.
type CHSignalJournal struct {
	db *sql.DB
}

func NewCHSignalJournal(ch *pkgch.Client) *CHSignalJournal {
	return &CHSignalJournal{db: ch.DB()}
}

func (j *CHSignalJournal) Append(ctx context.Context, ev *models.SignalEvent) error {
	const q = `INSERT INTO ` + signalsTable + `
        (ts, symbol, tf, action, regime, close, support, resistance, note)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := j.db.ExecContext(ctx, q,
		ev.Time,
		ev.Symbol,
		ev.Timeframe,
		string(ev.Action),
		string(ev.Regime),
		ev.Close,
		ev.Support,
		ev.Resistance,
		ev.Note,
	)
	if err != nil {
		return fmt.Errorf("append signal: %w", err)
	}
	return nil
}

func (j *CHSignalJournal) Recent(ctx context.Context, symbol string, limit int) ([]models.SignalEvent, error) {
	const q = `
        SELECT ts, symbol, tf, action, regime, close, support, resistance, note
        FROM ` + signalsTable + `
        WHERE symbol = ?
        ORDER BY ts DESC
        LIMIT ?
    `
	rows, err := j.db.QueryContext(ctx, q, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("recent signals: %w", err)
	}
	defer rows.Close()

	out := make([]models.SignalEvent, 0, limit)
	for rows.Next() {
		var (
			ev     models.SignalEvent
			action string
			regime string
		)
		if err := rows.Scan(&ev.Time, &ev.Symbol, &ev.Timeframe, &action, &regime, &ev.Close, &ev.Support, &ev.Resistance, &ev.Note); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		ev.Action = models.SignalAction(action)
		ev.Regime = models.RegimeState(regime)
		out = append(out, ev)
	}
	return out, rows.Err()
}

var _ domrepo.SignalJournal = (*CHSignalJournal)(nil)
