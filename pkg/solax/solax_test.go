package solax

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func x1MiniBody() string {
	data := make([]string, 69)
	for i := range data {
		data[i] = "0"
	}
	data[6] = "1243.0"   // ac_power
	data[9] = "2770.3"   // total_energy
	data[11] = "760.5"   // pv1_power
	data[50] = "50.02"   // grid_frequency
	return fmt.Sprintf(`{"type":"X1-Boost-Air-Mini","SN":"XM3A04024","ver":"2.033.20","Data":[%s],"status":"2"}`,
		strings.Join(data, ","))
}

func testServer(t *testing.T, body string, status int) (*httptest.Server, *RealTimeAPI) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, realTimeDataPath, r.URL.Path)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.ParseUint(u.Port(), 10, 32)
	require.NoError(t, err)
	return srv, CreateRealTimeAPI(u.Hostname(), uint(port), 2*time.Second, nil)
}

func TestOpenIdentifiesVariant(t *testing.T) {

	_, api := testServer(t, x1MiniBody(), http.StatusOK)

	require.NoError(t, api.Open())

	info, err := api.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "SolaX Power", info.Manufacturer)
	assert.Equal(t, "X1-Boost-Air-Mini", info.Type)
	assert.Equal(t, "XM3A04024", info.Serial)
	assert.Equal(t, "2.033.20", info.Version)

	catalog := api.SensorMap()
	assert.NotEmpty(t, catalog)
	assert.Equal(t, "pv1_current", catalog[0].Key)
}

func TestGetRealTimeData(t *testing.T) {

	_, api := testServer(t, x1MiniBody(), http.StatusOK)

	require.NoError(t, api.Open())

	data, err := api.GetRealTimeData()
	require.NoError(t, err)
	assert.Equal(t, "XM3A04024", data.Serial)
	assert.InDelta(t, 1243.0, data.Values["ac_power"], 0.001)
	assert.InDelta(t, 760.5, data.Values["pv1_power"], 0.001)
	assert.InDelta(t, 50.02, data.Values["grid_frequency"], 0.001)
	assert.InDelta(t, 2770.3, data.Values["total_energy"], 0.001)
}

func TestGetRealTimeDataBeforeOpen(t *testing.T) {

	_, api := testServer(t, x1MiniBody(), http.StatusOK)

	_, err := api.GetRealTimeData()
	assert.Error(t, err)
}

func TestOpenRejectsUnknownVariant(t *testing.T) {

	_, api := testServer(t, `{"type":"X-Unknown","SN":"A","ver":"1","Data":[1,2,3]}`, http.StatusOK)

	err := api.Open()
	assert.Error(t, err)
}

func TestFetchErrorOnHTTPStatus(t *testing.T) {

	_, api := testServer(t, "busy", http.StatusServiceUnavailable)

	err := api.Open()
	assert.Error(t, err)
}

func TestDecodeSkipsMissingIndexes(t *testing.T) {

	inv := x1MiniInverter()
	// short response: only the first 12 positions present
	raw := make([]float64, 12)
	raw[6] = 512

	values := inv.decode(raw)

	assert.InDelta(t, 512.0, values["ac_power"], 0.001)
	_, ok := values["grid_frequency"]
	assert.False(t, ok, "index beyond response must be absent")
	_, ok = values["pv1_power"]
	assert.False(t, ok)
}

func TestIdentifyByDataLengthWhenTypeMissing(t *testing.T) {

	resp := &rawResponse{Data: make([]float64, 103)}
	inv, err := identifyInverter(resp)
	require.NoError(t, err)
	assert.Equal(t, "X3-Hybiyd-G3", inv.Type)
}
