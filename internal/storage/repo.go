package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
)

// Load reads the complete snapshot.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	var err error

	if snap.CurrentTasks, err = s.fetchTasks(ctx, ListCurrent); err != nil {
		return nil, unavailable("load current tasks", err)
	}
	if snap.RepeatTasks, err = s.fetchTasks(ctx, ListRepeat); err != nil {
		return nil, unavailable("load repeat tasks", err)
	}
	if snap.Items, err = s.fetchItems(ctx); err != nil {
		return nil, unavailable("load items", err)
	}
	if snap.Progress, err = s.fetchProgress(ctx); err != nil {
		return nil, unavailable("load progress", err)
	}
	if snap.Actions, err = s.fetchCounts(ctx, "action_counts"); err != nil {
		return nil, unavailable("load action counts", err)
	}
	if snap.Purchases, err = s.fetchCounts(ctx, "purchase_counts"); err != nil {
		return nil, unavailable("load purchase counts", err)
	}
	if snap.Locations, err = s.fetchLocations(ctx); err != nil {
		return nil, unavailable("load locations", err)
	}
	if snap.Sequences, err = s.fetchSequences(ctx); err != nil {
		return nil, unavailable("load sequences", err)
	}

	s.logger.Debug("snapshot loaded",
		"current", len(snap.CurrentTasks),
		"repeat", len(snap.RepeatTasks),
		"items", len(snap.Items),
	)
	return snap, nil
}

// Save replaces everything stored with snap in a single transaction.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, table := range []string{"tasks", "items", "progress", "action_counts", "purchase_counts", "locations", "sequences"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+";"); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := insertTasks(ctx, tx, ListCurrent, snap.CurrentTasks); err != nil {
			return err
		}
		if err := insertTasks(ctx, tx, ListRepeat, snap.RepeatTasks); err != nil {
			return err
		}
		if err := insertItems(ctx, tx, snap.Items); err != nil {
			return err
		}
		if p := snap.Progress; p != nil {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO progress (id, current_level, current_xp, start_level, next_level) VALUES (1, ?, ?, ?, ?);`,
				p.Level, p.XP, p.StartLevel, p.NextLevel)
			if err != nil {
				return fmt.Errorf("insert progress: %w", err)
			}
		}
		if err := insertCounts(ctx, tx, "action_counts", snap.Actions); err != nil {
			return err
		}
		if err := insertCounts(ctx, tx, "purchase_counts", snap.Purchases); err != nil {
			return err
		}
		for _, loc := range snap.Locations {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO locations (name) VALUES (?);`, loc); err != nil {
				return fmt.Errorf("insert location: %w", err)
			}
		}
		for _, seq := range snap.Sequences {
			if _, err := tx.ExecContext(ctx, `INSERT INTO sequences (list, next_id) VALUES (?, ?);`, seq.List, seq.NextID); err != nil {
				return fmt.Errorf("insert sequence %s: %w", seq.List, err)
			}
		}
		return nil
	})
	if err != nil {
		return unavailable("save snapshot", err)
	}
	s.logger.Debug("snapshot saved",
		"current", len(snap.CurrentTasks),
		"repeat", len(snap.RepeatTasks),
		"items", len(snap.Items),
	)
	return nil
}

func insertTasks(ctx context.Context, tx *sql.Tx, list string, rows []TaskRow) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tasks
		(list, id, position, title, first_step, second_step, third_step, start_date, repeat_flag, interval_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("prepare task insert: %w", err)
	}
	defer stmt.Close()

	for pos, t := range rows {
		start := sql.NullString{}
		if !t.StartDate.IsZero() {
			start = sql.NullString{String: t.StartDate.String(), Valid: true}
		}
		rep := 0
		if t.Repeat {
			rep = 1
		}
		if _, err := stmt.ExecContext(ctx, list, t.ID, pos, t.Title, t.FirstStep, t.SecondStep, t.ThirdStep, start, rep, t.Interval); err != nil {
			return fmt.Errorf("insert %s task %d: %w", list, t.ID, err)
		}
	}
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, rows []ItemRow) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items
		(id, position, title, quantity, location, unit_index)
		VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer stmt.Close()

	for pos, it := range rows {
		qty := sql.NullInt64{}
		if it.Quantity != nil {
			qty = sql.NullInt64{Int64: int64(*it.Quantity), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, it.ID, pos, it.Title, qty, it.Location, it.Unit); err != nil {
			return fmt.Errorf("insert item %d: %w", it.ID, err)
		}
	}
	return nil
}

func insertCounts(ctx context.Context, tx *sql.Tx, table string, rows []CountRow) error {
	for _, c := range rows {
		if _, err := tx.ExecContext(ctx, "INSERT INTO "+table+" (name, count) VALUES (?, ?);", c.Name, c.Count); err != nil {
			return fmt.Errorf("insert %s %q: %w", table, c.Name, err)
		}
	}
	return nil
}

func (s *Store) fetchTasks(ctx context.Context, list string) ([]TaskRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, first_step, second_step, third_step, start_date, repeat_flag, interval_index
		FROM tasks WHERE list = ? ORDER BY position, id;`, list)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []TaskRow
	for rows.Next() {
		var t TaskRow
		var start sql.NullString
		var rep int
		if err := rows.Scan(&t.ID, &t.Title, &t.FirstStep, &t.SecondStep, &t.ThirdStep, &start, &rep, &t.Interval); err != nil {
			return nil, err
		}
		t.Repeat = rep == 1
		if start.Valid && start.String != "" {
			d, err := civil.ParseDate(start.String)
			if err != nil {
				return nil, fmt.Errorf("task %d start date: %w", t.ID, err)
			}
			t.StartDate = d
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) fetchItems(ctx context.Context) ([]ItemRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, quantity, location, unit_index FROM items ORDER BY position, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ItemRow
	for rows.Next() {
		var it ItemRow
		var qty sql.NullInt64
		if err := rows.Scan(&it.ID, &it.Title, &qty, &it.Location, &it.Unit); err != nil {
			return nil, err
		}
		if qty.Valid {
			q := int(qty.Int64)
			it.Quantity = &q
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) fetchProgress(ctx context.Context) (*ProgressRow, error) {
	var p ProgressRow
	err := s.db.QueryRowContext(ctx, `SELECT current_level, current_xp, start_level, next_level FROM progress WHERE id = 1;`).
		Scan(&p.Level, &p.XP, &p.StartLevel, &p.NextLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) fetchCounts(ctx context.Context, table string) ([]CountRow, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, count FROM "+table+" ORDER BY name;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CountRow
	for rows.Next() {
		var c CountRow
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) fetchLocations(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM locations ORDER BY name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *Store) fetchSequences(ctx context.Context) ([]SequenceRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT list, next_id FROM sequences ORDER BY list;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SequenceRow
	for rows.Next() {
		var seq SequenceRow
		if err := rows.Scan(&seq.List, &seq.NextID); err != nil {
			return nil, err
		}
		out = append(out, seq)
	}
	return out, rows.Err()
}
