// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/lockvault/log"
	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/vault"
)

const insertEvent = "INSERT INTO event(kind, timeIndex, subject, token, amount, round, endIndex) VALUES (?, ?, ?, ?, ?, ?, ?)"

var logger = log.WithContext("pkg", "eventdb")

// EventDB is the sqlite journal of vault notifications.
type EventDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string

	changedLock sync.Mutex
	changed     chan struct{}
}

var _ vault.EventSink = (*EventDB)(nil)

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open event db")
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps an in-memory db alive and serialises writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create event table")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("event db opened", "path", path, "sqlite", driverVer)
	return &EventDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
		changed:       make(chan struct{}),
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

func (db *EventDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// Changed returns a channel closed by the next commit of events.
func (db *EventDB) Changed() <-chan struct{} {
	db.changedLock.Lock()
	defer db.changedLock.Unlock()
	return db.changed
}

func (db *EventDB) notify() {
	db.changedLock.Lock()
	close(db.changed)
	db.changed = make(chan struct{})
	db.changedLock.Unlock()
}

// Write appends events in one transaction.
func (db *EventDB) Write(events []*vault.Event) error {
	w := db.NewWriter()
	if err := w.Write(events); err != nil {
		w.Rollback()
		return err
	}
	return w.Commit()
}

// NewWriter creates a writer that stages events until Commit.
func (db *EventDB) NewWriter() vault.EventWriter {
	return &Writer{db: db}
}

// Writer stages events in an open transaction.
type Writer struct {
	db    *EventDB
	tx    *sql.Tx
	stmt  *sql.Stmt
	count int
}

func (w *Writer) Write(events []*vault.Event) error {
	if len(events) == 0 {
		return nil
	}
	if w.tx == nil {
		stmt, err := w.db.stmtCache.Prepare(insertEvent)
		if err != nil {
			return err
		}
		tx, err := w.db.db.Begin()
		if err != nil {
			return err
		}
		w.tx, w.stmt = tx, tx.Stmt(stmt)
	}
	for _, ev := range events {
		if _, err := w.stmt.Exec(
			uint8(ev.Kind),
			ev.TimeIndex,
			ev.Subject.Bytes(),
			tokenValue(ev.Token),
			amountValue(ev.Amount),
			ev.Round,
			ev.EndIndex,
		); err != nil {
			return errors.Wrap(err, "insert event")
		}
		w.count++
	}
	return nil
}

// Commit commits staged events.
func (w *Writer) Commit() error {
	if w.tx == nil {
		return nil
	}
	tx, count := w.tx, w.count
	w.reset()
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit events")
	}
	metricWritten().Add(int64(count))
	w.db.notify()
	return nil
}

// Rollback discards staged events.
func (w *Writer) Rollback() error {
	if w.tx == nil {
		return nil
	}
	tx := w.tx
	w.reset()
	return tx.Rollback()
}

// UncommittedCount returns the number of staged events.
func (w *Writer) UncommittedCount() int {
	return w.count
}

func (w *Writer) reset() {
	w.tx, w.stmt, w.count = nil, nil, 0
}

// Filter returns the events matching filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if len(filter.Kinds) > 0 {
		stmt += " AND kind IN (" + strings.TrimSuffix(strings.Repeat("?,", len(filter.Kinds)), ",") + ")"
		for _, k := range filter.Kinds {
			args = append(args, uint8(k))
		}
	}
	if filter.Subject != nil {
		args = append(args, filter.Subject.Bytes())
		stmt += " AND subject = ?"
	}
	if filter.Token != nil {
		args = append(args, filter.Token.Bytes())
		stmt += " AND token = ?"
	}
	if filter.Round != nil {
		args = append(args, *filter.Round)
		stmt += " AND round = ?"
	}
	if filter.After != nil {
		args = append(args, *filter.After)
		stmt += " AND seq > ?"
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND timeIndex >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND timeIndex <= ?"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func (db *EventDB) query(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       uint64
			kind      uint8
			timeIndex uint64
			subject   []byte
			token     []byte
			amount    []byte
			round     uint64
			endIndex  uint64
		)
		if err := rows.Scan(&seq, &kind, &timeIndex, &subject, &token, &amount, &round, &endIndex); err != nil {
			return nil, err
		}
		ev := &Event{
			Seq: seq,
			Event: vault.Event{
				Kind:      vault.Kind(kind),
				TimeIndex: timeIndex,
				Subject:   thor.BytesToAddress(subject),
				Round:     round,
				EndIndex:  endIndex,
			},
		}
		if len(token) > 0 {
			ev.Token = thor.BytesToAddress(token)
		}
		if amount != nil {
			ev.Amount = new(uint256.Int).SetBytes(amount)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func tokenValue(token thor.Address) []byte {
	if token.IsZero() {
		return nil
	}
	return token.Bytes()
}

func amountValue(amount *uint256.Int) []byte {
	if amount == nil {
		return nil
	}
	b := amount.Bytes32()
	return b[:]
}
