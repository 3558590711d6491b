package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/resource-planner/internal/persistence"
)

// SettingsRepository implements persistence.SettingsRepository.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository wires the repository to a database handle.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// HolidaySetting loads the stored holiday configuration.
func (r *SettingsRepository) HolidaySetting(ctx context.Context) (persistence.HolidaySetting, error) {
	var setting persistence.HolidaySetting

	rows, err := r.db.db.QueryContext(ctx, `SELECT code FROM holiday_disabled_codes ORDER BY code`)
	if err != nil {
		return persistence.HolidaySetting{}, fmt.Errorf("listing disabled holiday codes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return persistence.HolidaySetting{}, fmt.Errorf("scanning holiday code: %w", err)
		}
		setting.DisabledCodes = append(setting.DisabledCodes, code)
	}
	if err := rows.Err(); err != nil {
		return persistence.HolidaySetting{}, fmt.Errorf("iterating holiday codes: %w", err)
	}

	customRows, err := r.db.db.QueryContext(ctx, `SELECT id, name, month, day, year FROM custom_holidays ORDER BY month, day, id`)
	if err != nil {
		return persistence.HolidaySetting{}, fmt.Errorf("listing custom holidays: %w", err)
	}
	defer customRows.Close()
	for customRows.Next() {
		var (
			record persistence.CustomHolidayRecord
			year   sql.NullInt64
		)
		if err := customRows.Scan(&record.ID, &record.Name, &record.Month, &record.Day, &year); err != nil {
			return persistence.HolidaySetting{}, fmt.Errorf("scanning custom holiday: %w", err)
		}
		if year.Valid {
			y := int(year.Int64)
			record.Year = &y
		}
		setting.Custom = append(setting.Custom, record)
	}
	if err := customRows.Err(); err != nil {
		return persistence.HolidaySetting{}, fmt.Errorf("iterating custom holidays: %w", err)
	}

	return setting, nil
}

// SaveHolidaySetting replaces the stored holiday configuration.
func (r *SettingsRepository) SaveHolidaySetting(ctx context.Context, setting persistence.HolidaySetting) error {
	tx, err := r.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving holiday setting: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM holiday_disabled_codes`); err != nil {
		return fmt.Errorf("clearing disabled holiday codes: %w", err)
	}
	for _, code := range setting.DisabledCodes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO holiday_disabled_codes (code) VALUES (?)`, code); err != nil {
			return fmt.Errorf("inserting disabled holiday code: %w", mapError(err))
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM custom_holidays`); err != nil {
		return fmt.Errorf("clearing custom holidays: %w", err)
	}
	for _, record := range setting.Custom {
		var year sql.NullInt64
		if record.Year != nil {
			year = sql.NullInt64{Int64: int64(*record.Year), Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO custom_holidays (id, name, month, day, year) VALUES (?, ?, ?, ?, ?)`,
			record.ID, record.Name, record.Month, record.Day, year,
		)
		if err != nil {
			return fmt.Errorf("inserting custom holiday: %w", mapError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving holiday setting: %w", err)
	}
	return nil
}
