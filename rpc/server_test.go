package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "github.com/winzalabs/winzachain/common/db"
	"github.com/winzalabs/winzachain/executor"
	_ "github.com/winzalabs/winzachain/plugin/dapp/lottery/executor"
	_ "github.com/winzalabs/winzachain/system/dapp/coins"
)

func newTestServer(t *testing.T) *httptest.Server {
	e := executor.New("main", dbm.NewDB("exec", dbm.MemDBBackendStr, "", 0), nil)
	e.SetClock(func() int64 { return 1700000000 })
	s := New(map[string]*executor.Executor{"main": e})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url string, body map[string]interface{}) map[string]interface{} {
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	return rep
}

func TestExecAndQuery(t *testing.T) {
	srv := newTestServer(t)

	rep := post(t, srv.URL+"/main/exec", map[string]interface{}{
		"execer":  "lottery",
		"action":  "Create",
		"payload": map[string]interface{}{"ticketPrice": 10},
		"from":    "op",
	})
	assert.Empty(t, rep["error"])

	rep = post(t, srv.URL+"/main/query", map[string]interface{}{
		"execer":   "lottery",
		"funcName": "GetRound",
		"payload":  map[string]interface{}{"roundId": 1},
	})
	require.Empty(t, rep["error"])
	round := rep["result"].(map[string]interface{})
	assert.Equal(t, float64(1), round["id"])
}

func TestQueryErrorSurface(t *testing.T) {
	srv := newTestServer(t)
	rep := post(t, srv.URL+"/main/query", map[string]interface{}{
		"execer":   "lottery",
		"funcName": "GetRound",
		"payload":  map[string]interface{}{"roundId": 42},
	})
	assert.Equal(t, "ErrRoundNotFound", rep["error"])
}

func TestUnknownChain404(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/nope/query", "application/json", bytes.NewReader([]byte("{}")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExecErrorSurface(t *testing.T) {
	srv := newTestServer(t)
	rep := post(t, srv.URL+"/main/exec", map[string]interface{}{
		"execer": "lottery",
		"action": "Close",
		"from":   "op",
	})
	assert.Contains(t, rep["error"], "ErrNoActiveRound")
}
