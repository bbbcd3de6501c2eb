// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jito-foundation/jito-tip-router-sub002/api/doc"
	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/metrics"
	"github.com/jito-foundation/jito-tip-router-sub002/program/fixture"
	"github.com/jito-foundation/jito-tip-router-sub002/tiprouter"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func newServer(t *testing.T, opts Options) *httptest.Server {
	bank, err := fixture.NewBank(host.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, bank.WarpToEpoch(3))
	return httptest.NewServer(New(bank, tiprouter.ProgramID, opts))
}

func TestMetricsMiddleware(t *testing.T) {
	ts := newServer(t, Options{AllowedOrigins: "*", EnableMetrics: true})
	defer ts.Close()

	_, code := httpGet(t, ts.URL+"/node/clock", nil)
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/ncn/"+solana.NewWallet().PublicKey().String()+"/config", nil)
	assert.Equal(t, http.StatusNotFound, code)

	body, _ := httpGet(t, ts.URL+"/metrics", nil)
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m := families["tiprouter_api_request_count"].GetMetric()
	require.Equal(t, 2, len(m), "should be 2 metric entries")
	assert.Equal(t, float64(1), m[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), m[1].GetCounter().GetValue())

	labels := m[0].GetLabel()
	require.Equal(t, 3, len(labels))
	assert.Equal(t, "code", labels[0].GetName())
	assert.Equal(t, "200", labels[0].GetValue())
	assert.Equal(t, "method", labels[1].GetName())
	assert.Equal(t, "GET", labels[1].GetValue())
	assert.Equal(t, "name", labels[2].GetName())
	assert.Equal(t, "node_get_clock", labels[2].GetValue())

	labels = m[1].GetLabel()
	require.Equal(t, 3, len(labels))
	assert.Equal(t, "404", labels[0].GetValue())
	assert.Equal(t, "ncn_get_config", labels[2].GetValue())

	assert.NotNil(t, families["tiprouter_api_duration_ms"])
}

func TestCORS(t *testing.T) {
	ts := newServer(t, Options{AllowedOrigins: "https://Example.com, https://other.com"})
	defer ts.Close()

	body, code := httpGet(t, ts.URL+"/node/clock", map[string]string{"Origin": "https://example.com"})
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"slot":1296000,"epoch":3,"slotsPerEpoch":432000}`, string(body))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/node/info", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://other.com")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "https://other.com", res.Header.Get("Access-Control-Allow-Origin"))

	// metrics are off
	_, code = httpGet(t, ts.URL+"/metrics", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDocumentedRoutes(t *testing.T) {
	bank, err := fixture.NewBank(host.DefaultConfig())
	require.NoError(t, err)

	routes := make(map[string]string)
	err = newRouter(bank, tiprouter.ProgramID, Options{}).
		Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
			if name := route.GetName(); name != "" {
				path, err := route.GetPathTemplate()
				if err != nil {
					return err
				}
				routes[name] = path
			}
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, doc.Operations(), routes)

	ts := httptest.NewServer(New(bank, tiprouter.ProgramID, Options{}))
	defer ts.Close()
	body, code := httpGet(t, ts.URL+"/doc/tiprouter.yaml", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, doc.OpenAPI, body)

	body, _ = httpGet(t, ts.URL+"/node/info", nil)
	assert.Contains(t, string(body), `"version":"`+doc.Version()+`"`)
}

func httpGet(t *testing.T, url string, headers map[string]string) ([]byte, int) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}
