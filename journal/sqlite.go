package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal stores order records in a SQLite database.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordOrder(r Record) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(id, label, instrument, is_long, command, amount, requested_amount,
		 open_price, close_price, stop_loss, take_profit, profit_loss_pips,
		 state, comment, creation_time, fill_time, close_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Label, r.Instrument, r.IsLong, r.Command, r.Amount,
		r.RequestedAmount, r.OpenPrice, r.ClosePrice, r.StopLoss,
		r.TakeProfit, r.ProfitLossPips, r.State, r.Comment,
		r.CreationTime, r.FillTime, r.CloseTime,
	)
	return err
}

// List returns all records, optionally filtered by instrument (empty means
// all), ordered by creation time.
func (j *SQLiteJournal) List(instrument string) ([]Record, error) {
	query := `
		SELECT id, label, instrument, is_long, command, amount,
		       requested_amount, open_price, close_price, stop_loss,
		       take_profit, profit_loss_pips, state, comment,
		       creation_time, fill_time, close_time
		FROM orders`
	args := []any{}
	if instrument != "" {
		query += " WHERE instrument = ?"
		args = append(args, instrument)
	}
	query += " ORDER BY creation_time, id"

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		err := rows.Scan(&r.ID, &r.Label, &r.Instrument, &r.IsLong,
			&r.Command, &r.Amount, &r.RequestedAmount, &r.OpenPrice,
			&r.ClosePrice, &r.StopLoss, &r.TakeProfit, &r.ProfitLossPips,
			&r.State, &r.Comment, &r.CreationTime, &r.FillTime, &r.CloseTime)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
