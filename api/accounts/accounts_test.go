// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

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

	"github.com/parastake/parastake/api/accounts"
	"github.com/parastake/parastake/node"
	"github.com/parastake/parastake/node/nodetest"
	"github.com/parastake/parastake/para"
)

func TestAccounts(t *testing.T) {
	n := nodetest.New(t, node.Options{}, 0)
	router := mux.NewRouter()
	accounts.New(n).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	defer ts.Close()

	get := func(addr string) (*accounts.Account, int) {
		res, err := http.Get(ts.URL + "/accounts/" + addr)
		require.NoError(t, err)
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		if res.StatusCode != http.StatusOK {
			return nil, res.StatusCode
		}
		var acc accounts.Account
		require.NoError(t, json.Unmarshal(body, &acc))
		return &acc, res.StatusCode
	}

	t.Run("candidate", func(t *testing.T) {
		acc, code := get(para.NamedAddress("alice").String())
		require.Equal(t, http.StatusOK, code)
		assert.True(t, acc.Candidate)
		assert.Equal(t, int64(900), (*big.Int)(acc.Free).Int64())
		assert.Equal(t, int64(100), (*big.Int)(acc.Reserved).Int64())
		assert.Empty(t, acc.Nominations)
	})

	t.Run("nominator", func(t *testing.T) {
		acc, code := get(para.NamedAddress("carol").String())
		require.Equal(t, http.StatusOK, code)
		assert.False(t, acc.Candidate)
		require.Len(t, acc.Nominations, 1)
		assert.Equal(t, para.NamedAddress("bob"), acc.Nominations[0].Candidate)
		assert.Equal(t, "active", acc.Nominations[0].Status)
	})

	t.Run("unknown", func(t *testing.T) {
		acc, code := get(para.NamedAddress("nobody").String())
		require.Equal(t, http.StatusOK, code)
		assert.Zero(t, (*big.Int)(acc.Free).Sign())
		assert.False(t, acc.Frozen)
	})

	t.Run("badAddress", func(t *testing.T) {
		_, code := get("0x12")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
