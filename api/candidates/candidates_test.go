// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidates_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parastake/parastake/api/candidates"
	"github.com/parastake/parastake/node"
	"github.com/parastake/parastake/node/nodetest"
	"github.com/parastake/parastake/para"
)

var ts *httptest.Server

func TestCandidates(t *testing.T) {
	n := nodetest.New(t, node.Options{}, 1)
	router := mux.NewRouter()
	candidates.New(n).Mount(router, "/candidates")
	ts = httptest.NewServer(router)
	defer ts.Close()

	t.Run("getCandidates", getCandidates)
	t.Run("getCandidate", getCandidate)
	t.Run("getUnknownCandidate", getUnknownCandidate)
	t.Run("getCandidateBadID", getCandidateBadID)
}

func httpGet(t *testing.T, path string) ([]byte, int) {
	res, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func getCandidates(t *testing.T) {
	body, code := httpGet(t, "/candidates")
	require.Equal(t, http.StatusOK, code)

	var list []candidates.Candidate
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	ids := []para.Address{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []para.Address{para.NamedAddress("alice"), para.NamedAddress("bob")}, ids)
	for _, c := range list {
		assert.Equal(t, "active", c.Status)
	}
}

func getCandidate(t *testing.T) {
	body, code := httpGet(t, "/candidates/"+para.NamedAddress("bob").String())
	require.Equal(t, http.StatusOK, code)

	var c candidates.Candidate
	require.NoError(t, json.Unmarshal(body, &c))
	assert.Equal(t, int64(100), (*big.Int)(c.Bond).Int64())
	assert.Equal(t, int64(200), (*big.Int)(c.TotalCounted).Int64())
	assert.Equal(t, int64(200), (*big.Int)(c.TotalBacking).Int64())
	require.Len(t, c.Nominations, 1)
	assert.Equal(t, para.NamedAddress("carol"), c.Nominations[0].Nominator)
	assert.True(t, c.Nominations[0].Counted)
}

func getUnknownCandidate(t *testing.T) {
	_, code := httpGet(t, "/candidates/"+para.NamedAddress("carol").String())
	assert.Equal(t, http.StatusNotFound, code)
}

func getCandidateBadID(t *testing.T) {
	_, code := httpGet(t, "/candidates/0xinvalid")
	assert.Equal(t, http.StatusBadRequest, code)
}
