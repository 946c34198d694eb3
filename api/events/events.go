// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/lockvault/api/restutil"
	"github.com/vechain/lockvault/eventdb"
	"github.com/vechain/lockvault/vault"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

// parseFilter reads kind, subject, token, round, from, to, order, offset and limit.
func (e *Events) parseFilter(req *http.Request) (*eventdb.Filter, error) {
	q := req.URL.Query()
	filter := &eventdb.Filter{}

	if kinds := q.Get("kind"); kinds != "" {
		for _, name := range strings.Split(kinds, ",") {
			k, err := vault.ParseKind(strings.TrimSpace(name))
			if err != nil {
				return nil, restutil.BadRequest(errors.WithMessage(err, "kind"))
			}
			filter.Kinds = append(filter.Kinds, k)
		}
	}
	if s := q.Get("subject"); s != "" {
		subject, err := restutil.ParseAddress("subject", s)
		if err != nil {
			return nil, err
		}
		filter.Subject = &subject
	}
	if s := q.Get("token"); s != "" {
		token, err := restutil.ParseAddress("token", s)
		if err != nil {
			return nil, err
		}
		filter.Token = &token
	}
	round, err := restutil.OptionalUint(req, "round")
	if err != nil {
		return nil, err
	}
	filter.Round = round

	from, err := restutil.OptionalUint(req, "from")
	if err != nil {
		return nil, err
	}
	to, err := restutil.OptionalUint(req, "to")
	if err != nil {
		return nil, err
	}
	// an open upper bound is encoded as To below From
	if (from != nil && *from > 0) || to != nil {
		filter.Range = &eventdb.Range{}
		if from != nil {
			filter.Range.From = *from
		}
		if to != nil {
			if *to < filter.Range.From {
				return nil, restutil.BadRequest(errors.New("to must be greater than or equal to from"))
			}
			filter.Range.To = *to
		}
	}

	switch order := eventdb.Order(strings.ToLower(q.Get("order"))); order {
	case "", eventdb.ASC:
		filter.Order = eventdb.ASC
	case eventdb.DESC:
		filter.Order = eventdb.DESC
	default:
		return nil, restutil.BadRequest(fmt.Errorf("order: unsupported value %q", order))
	}

	offset, err := restutil.QueryUint(req, "offset", 0)
	if err != nil {
		return nil, err
	}
	limit, err := restutil.QueryUint(req, "limit", e.limit)
	if err != nil {
		return nil, err
	}
	if limit > e.limit {
		return nil, restutil.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}
	filter.Options = &eventdb.Options{Offset: offset, Limit: limit}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req)
	if err != nil {
		return err
	}
	events, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = ConvertEvent(ev)
	}
	return restutil.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
