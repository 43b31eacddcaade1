// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) (int, string) {
	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// runs before the prometheus test switches the singleton
func TestNoopMetrics(t *testing.T) {
	if _, ok := metrics.(*prometheusMetrics); ok {
		t.Skip("prometheus already initialized")
	}
	Counter("noop_count").Add(1)
	CounterVec("noop_vec", []string{"result"}).AddWithLabel(1, map[string]string{"anything": "goes"})
	Gauge("noop_gauge").Set(3)
	Histogram("noop_hist", nil).Observe(1)

	status, _ := scrape(t)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	lazy := LazyLoadCounter("lazy_count")
	for range 3 {
		lazy().Add(1)
	}
	assert.Same(t, lazy(), lazy())

	CounterVec("payouts", []string{"result"}).AddWithLabel(2, map[string]string{"result": "paid"})
	Gauge("era").Set(7)
	Histogram("block_ms", BucketBlockMillis).Observe(3)

	status, body := scrape(t)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "parastake_lazy_count 3")
	assert.Contains(t, body, `parastake_payouts{result="paid"} 2`)
	assert.Contains(t, body, "parastake_era 7")
	assert.Contains(t, body, "parastake_block_ms_count 1")
}
