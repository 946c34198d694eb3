// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	kind INTEGER NOT NULL,
	timeIndex INTEGER NOT NULL,
	subject BLOB(20) NOT NULL,
	token BLOB(20),
	amount BLOB(32),
	round INTEGER NOT NULL,
	endIndex INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_event_kind ON event(kind);
CREATE INDEX IF NOT EXISTS idx_event_time ON event(timeIndex);
CREATE INDEX IF NOT EXISTS idx_event_subject ON event(subject);
CREATE INDEX IF NOT EXISTS idx_event_round ON event(round);
`
