// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/websocket"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/lockvault/api"
	"github.com/vechain/lockvault/api/events"
	"github.com/vechain/lockvault/api/restutil"
	"github.com/vechain/lockvault/api/vaults"
	"github.com/vechain/lockvault/clock"
	"github.com/vechain/lockvault/eventdb"
	"github.com/vechain/lockvault/lvldb"
	"github.com/vechain/lockvault/state"
	"github.com/vechain/lockvault/thor"
	"github.com/vechain/lockvault/token"
	"github.com/vechain/lockvault/vault"
	"github.com/vechain/lockvault/vault/power"
)

var (
	vaultAddr  = thor.BytesToAddress([]byte("vault"))
	assetAddr  = thor.BytesToAddress([]byte("asset"))
	rewardAddr = thor.BytesToAddress([]byte("reward"))
	owner      = thor.BytesToAddress([]byte("owner"))
	alice      = thor.BytesToAddress([]byte("alice"))
	bob        = thor.BytesToAddress([]byte("bob"))
)

func fund(t *testing.T, l *token.Ledger, addr thor.Address, amount uint64) {
	require.NoError(t, l.Mint(addr, uint256.NewInt(amount)))
	require.NoError(t, l.Approve(addr, vaultAddr, uint256.NewInt(amount)))
}

type fixture struct {
	srv   *httptest.Server
	vault *vault.Vault
	asset *token.Ledger
	close func()
}

// newFixture runs a vault with two locks and a round whose first batch paid alice.
func newFixture(t *testing.T, allowWrites bool) *fixture {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	params := vault.DefaultParams()
	params.Policy = power.Decay
	params.DepositFeePercent = 0
	params.BatchSize = 1

	st := state.New(lvldb.NewMem())
	tokens := token.NewRegistry(st)
	clk := clock.NewManual(0)
	v, err := vault.New(vaultAddr, params, st, tokens, clk, db)
	require.NoError(t, err)
	require.NoError(t, v.Initialize(owner, assetAddr, owner))

	asset, reward := tokens.Ledger(assetAddr), tokens.Ledger(rewardAddr)
	fund(t, asset, alice, 1000)
	require.NoError(t, v.LockTokens(alice, uint256.NewInt(1000)))
	fund(t, asset, bob, 3000)
	require.NoError(t, v.LockTokens(bob, uint256.NewInt(3000)))

	clk.Set(10)
	require.NoError(t, v.RegisterRewardToken(owner, rewardAddr, uint256.NewInt(1)))
	fund(t, reward, owner, 400)
	require.NoError(t, v.FundRewards(owner, rewardAddr, uint256.NewInt(400)))
	_, err = v.StartRound(owner, rewardAddr)
	require.NoError(t, err)

	handler, closeSubs := api.New(v, &sync.Mutex{}, db, api.Options{
		AllowedOrigins: "*",
		PageLimit:      10,
		AllowWrites:    allowWrites,
		EnableMetrics:  true,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Cleanup(closeSubs)
	return &fixture{srv: srv, vault: v, asset: asset, close: closeSubs}
}

func newServer(t *testing.T) *httptest.Server {
	return newFixture(t, false).srv
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func getJSON(t *testing.T, url string, v any) {
	body, status := httpGet(t, url)
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, v))
}

func httpPost(t *testing.T, url string, body string) ([]byte, int) {
	res, err := http.Post(url, "application/json", strings.NewReader(body)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return data, res.StatusCode
}

func bigOf(v *math.HexOrDecimal256) uint64 {
	return (*big.Int)(v).Uint64()
}

func TestSummary(t *testing.T) {
	srv := newServer(t)

	var s vaults.Summary
	getJSON(t, srv.URL+"/vault", &s)
	assert.Equal(t, uint64(10), s.Now)
	assert.Equal(t, owner, s.Owner)
	assert.Equal(t, assetAddr, s.LockAsset)
	assert.Equal(t, uint64(4000), bigOf(s.TotalLocked))
	assert.Equal(t, uint64(3200), bigOf(s.TotalSupply))
	assert.Equal(t, uint64(2), s.RegistrySize)
	assert.Equal(t, uint64(1), s.RoundCount)
	assert.Equal(t, []uint64{1}, s.OpenRounds)
}

func TestAccount(t *testing.T) {
	srv := newServer(t)

	var acc vaults.Account
	getJSON(t, srv.URL+"/vault/accounts/"+bob.String()+"?at=25", &acc)
	assert.Equal(t, bob, acc.Address)
	assert.Equal(t, uint64(25), acc.At)
	assert.Equal(t, uint64(1500), bigOf(acc.VotingPower))
	require.NotNil(t, acc.Lock)
	assert.Equal(t, uint64(3000), bigOf(acc.Lock.Principal))
	assert.Equal(t, uint64(50), acc.Lock.EndIndex)

	getJSON(t, srv.URL+"/vault/accounts/"+owner.String(), &acc)
	assert.Nil(t, acc.Lock)
	assert.Equal(t, uint64(0), bigOf(acc.VotingPower))

	_, status := httpGet(t, srv.URL+"/vault/accounts/0xnotanaddress")
	assert.Equal(t, http.StatusBadRequest, status)
	_, status = httpGet(t, srv.URL+"/vault/accounts/"+bob.String()+"?at=-1")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMembers(t *testing.T) {
	srv := newServer(t)

	var members []thor.Address
	getJSON(t, srv.URL+"/vault/members", &members)
	assert.Equal(t, []thor.Address{alice, bob}, members)

	getJSON(t, srv.URL+"/vault/members?offset=1&limit=1", &members)
	assert.Equal(t, []thor.Address{bob}, members)

	body, _ := httpGet(t, srv.URL+"/vault/members?offset=5")
	assert.JSONEq(t, `[]`, string(body))

	_, status := httpGet(t, srv.URL+"/vault/members?limit=11")
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRoundAndRewards(t *testing.T) {
	srv := newServer(t)

	var r vaults.Round
	getJSON(t, srv.URL+"/vault/rounds/1", &r)
	assert.Equal(t, rewardAddr, r.RewardToken)
	assert.Equal(t, uint64(400), bigOf(r.TotalRewardsAtStart))
	assert.Equal(t, uint64(100), bigOf(r.Distributed))
	assert.Equal(t, uint64(300), bigOf(r.Pending))
	assert.Equal(t, uint64(1), r.LastProcessedIndex)
	assert.False(t, r.Complete)

	_, status := httpGet(t, srv.URL+"/vault/rounds/2")
	assert.Equal(t, http.StatusNotFound, status)
	_, status = httpGet(t, srv.URL+"/vault/rounds/x")
	assert.Equal(t, http.StatusBadRequest, status)

	var rt vaults.RewardToken
	getJSON(t, srv.URL+"/vault/rewards/"+rewardAddr.String(), &rt)
	assert.True(t, rt.Registered)
	assert.Equal(t, uint64(0), bigOf(rt.AvailableRewards))
	assert.Equal(t, uint64(300), bigOf(rt.Pending))
}

func TestEvents(t *testing.T) {
	srv := newServer(t)

	var all []*events.FilteredEvent
	getJSON(t, srv.URL+"/events", &all)
	require.Len(t, all, 4)
	assert.Equal(t, "LockCreated", all[0].Kind)
	assert.Equal(t, vault.LockCreated.Topic(), all[0].Topic)
	assert.Equal(t, uint64(50), all[0].EndIndex)
	assert.Equal(t, "RewardDistributed", all[3].Kind)
	assert.Equal(t, alice, all[3].Subject)
	assert.Equal(t, uint64(1), all[3].Round)
	assert.Equal(t, uint64(100), bigOf(all[3].Amount))

	var filtered []*events.FilteredEvent
	getJSON(t, srv.URL+"/events?kind=LockCreated&subject="+bob.String(), &filtered)
	require.Len(t, filtered, 1)
	assert.Equal(t, uint64(2), filtered[0].Seq)

	getJSON(t, srv.URL+"/events?kind="+vault.RewardDistributed.Topic().String(), &filtered)
	require.Len(t, filtered, 1)
	assert.Equal(t, uint64(4), filtered[0].Seq)

	getJSON(t, srv.URL+"/events?from=10&order=desc&limit=2", &filtered)
	require.Len(t, filtered, 2)
	assert.Equal(t, uint64(4), filtered[0].Seq)
	assert.Equal(t, uint64(3), filtered[1].Seq)

	getJSON(t, srv.URL+"/events?round=1", &filtered)
	assert.Len(t, filtered, 1)

	for _, query := range []string{"kind=Nope", "kind=0x01", "subject=0x1", "order=sideways", "from=5&to=4", "round=a"} {
		_, status := httpGet(t, srv.URL+"/events?"+query)
		assert.Equal(t, http.StatusBadRequest, status, query)
	}
	_, status := httpGet(t, srv.URL+"/events?limit=100")
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCORS(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/vault", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.org")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestWritesDisabled(t *testing.T) {
	srv := newServer(t)

	_, status := httpPost(t, srv.URL+"/vault/locks", `{"caller":"`+alice.String()+`","amount":"1000"}`)
	assert.Equal(t, http.StatusForbidden, status)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/vault/locks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestWriteCalls(t *testing.T) {
	f := newFixture(t, true)
	carol := thor.BytesToAddress([]byte("carol"))
	fund(t, f.asset, carol, 2000)

	body, status := httpPost(t, f.srv.URL+"/vault/locks", `{"caller":"`+carol.String()+`","amount":"1500"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	var acc vaults.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	require.NotNil(t, acc.Lock)
	assert.Equal(t, uint64(1500), bigOf(acc.Lock.Principal))
	assert.Equal(t, uint64(60), acc.Lock.EndIndex)

	// rejected calls respond the encoded reason
	body, status = httpPost(t, f.srv.URL+"/vault/locks", `{"caller":"`+carol.String()+`","amount":"500"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	var revert restutil.RevertResponse
	require.NoError(t, json.Unmarshal(body, &revert))
	assert.Equal(t, vault.ErrBelowMinimum.Error(), revert.Error)
	assert.NotEmpty(t, revert.Data)

	body, status = httpPost(t, f.srv.URL+"/vault/locks/extend", `{"caller":"`+carol.String()+`","amount":"500"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, uint64(2000), bigOf(acc.Lock.Principal))

	body, status = httpPost(t, f.srv.URL+"/vault/rounds/1/continue", `{"caller":"`+owner.String()+`"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	var r vaults.Round
	require.NoError(t, json.Unmarshal(body, &r))
	assert.Equal(t, uint64(2), r.LastProcessedIndex)
	assert.Equal(t, uint64(400), bigOf(r.Distributed))
	assert.True(t, r.Complete)

	var s vaults.Summary
	getJSON(t, f.srv.URL+"/vault", &s)
	assert.Equal(t, uint64(3), s.RegistrySize)
	assert.Equal(t, uint64(6000), bigOf(s.TotalLocked))
	assert.Empty(t, s.OpenRounds)

	for _, bad := range []struct{ path, body string }{
		{"/vault/locks", `{"caller":"` + carol.String() + `"}`},
		{"/vault/locks", `{"caller":"` + carol.String() + `","amount":"-1"}`},
		{"/vault/locks", `{"caller":"` + carol.String() + `","amount":"1","extra":1}`},
		{"/vault/locks", `not json`},
		{"/vault/rounds", `{"caller":"` + owner.String() + `"}`},
		{"/vault/rounds/x/continue", `{"caller":"` + owner.String() + `"}`},
		{"/vault/rewards/0x1/fund", `{"caller":"` + owner.String() + `","amount":"1"}`},
	} {
		_, status := httpPost(t, f.srv.URL+bad.path, bad.body)
		assert.Equal(t, http.StatusBadRequest, status, bad.path+" "+bad.body)
	}
}

func dialEvents(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(srv.URL, "http://"), Path: "/subscriptions/events", RawQuery: query}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) *events.FilteredEvent {
	var ev events.FilteredEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return &ev
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t, false)

	replay := dialEvents(t, f.srv, "pos=2")
	ev := readEvent(t, replay)
	assert.Equal(t, uint64(3), ev.Seq)
	assert.Equal(t, "RewardFunded", ev.Kind)
	ev = readEvent(t, replay)
	assert.Equal(t, uint64(4), ev.Seq)
	assert.Equal(t, alice, ev.Subject)

	locks := dialEvents(t, f.srv, "kind=LockCreated")

	carol := thor.BytesToAddress([]byte("carol"))
	fund(t, f.asset, carol, 1000)
	require.NoError(t, f.vault.LockTokens(carol, uint256.NewInt(1000)))

	ev = readEvent(t, replay)
	assert.Equal(t, uint64(5), ev.Seq)
	assert.Equal(t, carol, ev.Subject)

	ev = readEvent(t, locks)
	assert.Equal(t, uint64(5), ev.Seq)
	assert.Equal(t, vault.LockCreated.Topic(), ev.Topic)
	assert.Equal(t, uint64(1000), bigOf(ev.Amount))

	f.close()
	_, _, err := locks.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "%v", err)
}

func TestSubscribeEventsBadQuery(t *testing.T) {
	srv := newServer(t)

	for _, query := range []string{"kind=Nope", "subject=0x1", "pos=x"} {
		u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(srv.URL, "http://"), Path: "/subscriptions/events", RawQuery: query}
		_, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
		assert.Equal(t, websocket.ErrBadHandshake, err, query)
		require.NotNil(t, resp, query)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
		resp.Body.Close()
	}
}
