package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// simulationRepository implements domain.SimulationRepository
type simulationRepository struct {
	db *DB
}

// NewSimulationRepository creates a new simulation repository
func NewSimulationRepository(db *DB) domain.SimulationRepository {
	return &simulationRepository{db: db}
}

const simulationColumns = `id, user_id, name, request, results, summary, created_at, updated_at, last_run_at`

// Create persists a saved simulation and its daily updates in one transaction
func (r *simulationRepository) Create(ctx context.Context, sim *domain.SavedSimulation) error {
	request, results, summary, err := encodeSimulation(sim)
	if err != nil {
		return err
	}

	var lastRunAt interface{}
	if sim.LastRunAt != nil {
		lastRunAt = formatTime(*sim.LastRunAt)
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := r.db.rebind(`
		INSERT INTO simulations (id, user_id, name, mode, frequency, request, results, summary, created_at, updated_at, last_run_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = dbTx.ExecContext(ctx, query,
		sim.ID.String(),
		sim.UserID,
		sim.Name,
		string(sim.Mode()),
		string(sim.Request.NotificationFrequency),
		request,
		results,
		summary,
		formatTime(sim.CreatedAt),
		formatTime(sim.UpdatedAt),
		lastRunAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create simulation: %w", err)
	}

	for i, update := range sim.DailyUpdates {
		if err := r.insertDailyUpdate(ctx, dbTx, sim.ID, i+1, update); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a saved simulation with its full daily history
func (r *simulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavedSimulation, error) {
	query := r.db.rebind(`SELECT ` + simulationColumns + ` FROM simulations WHERE id = ?`)

	sim, err := scanSimulation(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("simulation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get simulation by ID: %w", err)
	}

	updates, err := r.listDailyUpdates(ctx, id)
	if err != nil {
		return nil, err
	}
	sim.DailyUpdates = updates

	return sim, nil
}

// ListByUser retrieves a user's simulations, newest first, without daily history
func (r *simulationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SavedSimulation, error) {
	query := r.db.rebind(`
		SELECT ` + simulationColumns + `
		FROM simulations
		WHERE user_id = ?
		ORDER BY created_at DESC, id
	`)
	return r.list(ctx, query, userID)
}

// ListDaily retrieves the open-ended simulations tracked at frequency, without daily history
func (r *simulationRepository) ListDaily(ctx context.Context, frequency domain.NotificationFrequency) ([]*domain.SavedSimulation, error) {
	query := r.db.rebind(`
		SELECT ` + simulationColumns + `
		FROM simulations
		WHERE mode = ? AND frequency = ?
		ORDER BY created_at, id
	`)
	return r.list(ctx, query, string(domain.ModeDaily), string(frequency))
}

// RecordDailyUpdate stores the refreshed results and appends update to the history.
// Both writes happen in one transaction, so a failure leaves the previous state intact.
func (r *simulationRepository) RecordDailyUpdate(ctx context.Context, sim *domain.SavedSimulation, update domain.DailyUpdate) error {
	_, results, summary, err := encodeSimulation(sim)
	if err != nil {
		return err
	}

	var lastRunAt interface{}
	if sim.LastRunAt != nil {
		lastRunAt = formatTime(*sim.LastRunAt)
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := r.db.rebind(`
		UPDATE simulations
		SET results = ?, summary = ?, updated_at = ?, last_run_at = ?
		WHERE id = ?
	`)
	result, err := dbTx.ExecContext(ctx, query, results, summary, formatTime(sim.UpdatedAt), lastRunAt, sim.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update simulation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("simulation %s: %w", sim.ID, domain.ErrNotFound)
	}

	var seq int
	seqQuery := r.db.rebind(`SELECT COALESCE(MAX(seq), 0) FROM daily_updates WHERE simulation_id = ?`)
	if err := dbTx.QueryRowContext(ctx, seqQuery, sim.ID.String()).Scan(&seq); err != nil {
		return fmt.Errorf("failed to get last daily update: %w", err)
	}

	if err := r.insertDailyUpdate(ctx, dbTx, sim.ID, seq+1, update); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a simulation and its daily history
func (r *simulationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, r.db.rebind(`DELETE FROM daily_updates WHERE simulation_id = ?`), id.String()); err != nil {
		return fmt.Errorf("failed to delete daily updates: %w", err)
	}

	result, err := dbTx.ExecContext(ctx, r.db.rebind(`DELETE FROM simulations WHERE id = ?`), id.String())
	if err != nil {
		return fmt.Errorf("failed to delete simulation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("simulation %s: %w", id, domain.ErrNotFound)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *simulationRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.SavedSimulation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}
	defer rows.Close()

	sims := []*domain.SavedSimulation{}
	for rows.Next() {
		sim, err := scanSimulation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan simulation: %w", err)
		}
		sims = append(sims, sim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating simulations: %w", err)
	}

	return sims, nil
}

func (r *simulationRepository) insertDailyUpdate(ctx context.Context, dbTx *sql.Tx, id uuid.UUID, seq int, update domain.DailyUpdate) error {
	query := r.db.rebind(`
		INSERT INTO daily_updates (simulation_id, seq, date, value, percent_change, cumulative_return)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := dbTx.ExecContext(ctx, query,
		id.String(),
		seq,
		update.Date.Format(domain.DateLayout),
		update.Value.String(),
		update.PercentChange.String(),
		update.CumulativeReturn.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert daily update: %w", err)
	}
	return nil
}

func (r *simulationRepository) listDailyUpdates(ctx context.Context, id uuid.UUID) ([]domain.DailyUpdate, error) {
	query := r.db.rebind(`
		SELECT date, value, percent_change, cumulative_return
		FROM daily_updates
		WHERE simulation_id = ?
		ORDER BY seq
	`)

	rows, err := r.db.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list daily updates: %w", err)
	}
	defer rows.Close()

	var updates []domain.DailyUpdate
	for rows.Next() {
		var dateStr, valueStr, changeStr, cumulativeStr string
		if err := rows.Scan(&dateStr, &valueStr, &changeStr, &cumulativeStr); err != nil {
			return nil, fmt.Errorf("failed to scan daily update: %w", err)
		}

		date, err := domain.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse daily update date: %w", err)
		}
		value, err := decimal.NewFromString(valueStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse daily update value: %w", err)
		}
		change, err := decimal.NewFromString(changeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse percent_change: %w", err)
		}
		cumulative, err := decimal.NewFromString(cumulativeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cumulative_return: %w", err)
		}

		updates = append(updates, domain.DailyUpdate{
			Date:             date,
			Value:            value,
			PercentChange:    change,
			CumulativeReturn: cumulative,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily updates: %w", err)
	}

	return updates, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSimulation(row rowScanner) (*domain.SavedSimulation, error) {
	var sim domain.SavedSimulation
	var idStr, requestJSON, resultsJSON, summaryJSON, createdStr, updatedStr string
	var lastRunStr sql.NullString

	if err := row.Scan(
		&idStr,
		&sim.UserID,
		&sim.Name,
		&requestJSON,
		&resultsJSON,
		&summaryJSON,
		&createdStr,
		&updatedStr,
		&lastRunStr,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse simulation id: %w", err)
	}
	sim.ID = id

	if err := json.Unmarshal([]byte(requestJSON), &sim.Request); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &sim.Results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	if err := json.Unmarshal([]byte(summaryJSON), &sim.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}

	if sim.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if sim.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	if lastRunStr.Valid {
		lastRun, err := parseTime(lastRunStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last_run_at: %w", err)
		}
		sim.LastRunAt = &lastRun
	}

	return &sim, nil
}

func encodeSimulation(sim *domain.SavedSimulation) (request, results, summary string, err error) {
	reqJSON, err := json.Marshal(sim.Request)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode request: %w", err)
	}
	resultsJSON, err := json.Marshal(sim.Results)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode results: %w", err)
	}
	summaryJSON, err := json.Marshal(sim.Summary)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode summary: %w", err)
	}
	return string(reqJSON), string(resultsJSON), string(summaryJSON), nil
}
