// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/vechain/lockvault/api/events"
	"github.com/vechain/lockvault/eventdb"
)

// eventReader reads the journal forward from a seq position.
type eventReader struct {
	db     *eventdb.EventDB
	filter eventdb.Filter
	pos    uint64
	limit  uint64
}

func newEventReader(db *eventdb.EventDB, filter eventdb.Filter, pos, limit uint64) *eventReader {
	return &eventReader{
		db:     db,
		filter: filter,
		pos:    pos,
		limit:  limit,
	}
}

// Read returns up to limit matching events after the position and advances it.
// The bool reports whether more may be pending.
func (er *eventReader) Read(ctx context.Context) ([]*events.FilteredEvent, bool, error) {
	filter := er.filter
	pos := er.pos
	filter.After = &pos
	filter.Options = &eventdb.Options{Limit: er.limit}
	filter.Order = eventdb.ASC

	evs, err := er.db.Filter(ctx, &filter)
	if err != nil {
		return nil, false, err
	}
	msgs := make([]*events.FilteredEvent, 0, len(evs))
	for _, ev := range evs {
		msgs = append(msgs, events.ConvertEvent(ev))
		er.pos = ev.Seq
	}
	return msgs, uint64(len(evs)) == er.limit, nil
}

// headSeq returns the seq of the latest journaled event.
func headSeq(ctx context.Context, db *eventdb.EventDB) (uint64, error) {
	evs, err := db.Filter(ctx, &eventdb.Filter{Order: eventdb.DESC, Options: &eventdb.Options{Limit: 1}})
	if err != nil || len(evs) == 0 {
		return 0, err
	}
	return evs[0].Seq, nil
}
