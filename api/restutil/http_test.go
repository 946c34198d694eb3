// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvault/builtin/reverts"
)

func serve(f HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	WrapHandlerFunc(f)(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestWrapHandlerFunc(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, _ *http.Request) error {
		return WriteJSON(w, map[string]int{"a": 1})
	}, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"a":1}`, rec.Body.String())

	rec = serve(func(http.ResponseWriter, *http.Request) error {
		return BadRequest(errors.New("bad"))
	}, "/")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad\n", rec.Body.String())

	rec = serve(func(http.ResponseWriter, *http.Request) error {
		return HTTPError(nil, http.StatusTeapot)
	}, "/")
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = serve(func(http.ResponseWriter, *http.Request) error {
		return errors.New("boom")
	}, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRevertResponse(t *testing.T) {
	revert := reverts.New("unknown round")
	rec := serve(func(http.ResponseWriter, *http.Request) error {
		return revert
	}, "/")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body RevertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unknown round", body.Error)
	assert.Equal(t, revert.Bytes(), []byte(body.Data))
}

func TestQueryParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&bad=x", nil)

	v, err := QueryUint(req, "limit", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)
	v, err = QueryUint(req, "offset", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v)
	_, err = QueryUint(req, "bad", 0)
	assert.Error(t, err)

	opt, err := OptionalUint(req, "round")
	require.NoError(t, err)
	assert.Nil(t, opt)
	opt, err = OptionalUint(req, "limit")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), *opt)

	_, err = ParseAddress("address", "0xzz")
	assert.Error(t, err)
	addr, err := ParseAddress("address", "0x0000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.False(t, addr.IsZero())
}
