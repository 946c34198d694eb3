// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/lockvault/api/restutil"
	"github.com/vechain/lockvault/eventdb"
	"github.com/vechain/lockvault/log"
	"github.com/vechain/lockvault/vault"
)

const (
	pingPeriod = 20 * time.Second
	pongWait   = pingPeriod * 2
	writeWait  = 10 * time.Second
)

var logger = log.WithContext("pkg", "subscriptions")

// Subscriptions streams journaled events over websocket.
type Subscriptions struct {
	db       *eventdb.EventDB
	limit    uint64
	upgrader *websocket.Upgrader
	done     chan struct{}
	once     sync.Once
}

func New(db *eventdb.EventDB, allowedOrigins []string, limit uint64) *Subscriptions {
	return &Subscriptions{
		db:    db,
		limit: limit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == strings.ToLower(origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// parseEventReader reads pos, kind, subject and token. Without pos the stream starts at the head.
func (s *Subscriptions) parseEventReader(req *http.Request) (*eventReader, error) {
	q := req.URL.Query()
	var filter eventdb.Filter

	if kinds := q.Get("kind"); kinds != "" {
		for _, name := range strings.Split(kinds, ",") {
			k, err := vault.ParseKind(strings.TrimSpace(name))
			if err != nil {
				return nil, restutil.BadRequest(errors.WithMessage(err, "kind"))
			}
			filter.Kinds = append(filter.Kinds, k)
		}
	}
	if v := q.Get("subject"); v != "" {
		subject, err := restutil.ParseAddress("subject", v)
		if err != nil {
			return nil, err
		}
		filter.Subject = &subject
	}
	if v := q.Get("token"); v != "" {
		token, err := restutil.ParseAddress("token", v)
		if err != nil {
			return nil, err
		}
		filter.Token = &token
	}

	pos, err := restutil.OptionalUint(req, "pos")
	if err != nil {
		return nil, err
	}
	if pos == nil {
		head, err := headSeq(req.Context(), s.db)
		if err != nil {
			return nil, err
		}
		pos = &head
	}
	return newEventReader(s.db, filter, *pos, s.limit), nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	reader, err := s.parseEventReader(req)
	if err != nil {
		return err
	}
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has responded already
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.pipe(req.Context(), conn, reader, closed); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *eventReader, closed <-chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// taken before reading so a commit in between is not missed
		changed := s.db.Changed()
		msgs, more, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if more {
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-changed:
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close ends every open subscription.
func (s *Subscriptions) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSubscribeEvents))
}
