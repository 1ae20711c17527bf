package solax

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const realTimeDataPath = "/api/realTimeData.htm"

// InverterAPIClient is the realtime data surface of a Solax inverter's local
// HTTP API. Open must be called before any other method.
type InverterAPIClient interface {
	Open() error
	Close() error
	GetInfo() (*DeviceInfo, error)
	SensorMap() []SensorDef
	GetRealTimeData() (*RealTimeData, error)
}

// DeviceInfo is the device metadata reported alongside every realtime sample.
type DeviceInfo struct {
	Manufacturer string
	Type         string
	Serial       string
	Version      string
}

// RealTimeData is one decoded realtime sample: keyed values plus the device
// metadata of the response it came from.
type RealTimeData struct {
	Type    string
	Serial  string
	Version string
	Values  map[string]float64
}

type rawResponse struct {
	Type    string    `json:"type"`
	SN      string    `json:"SN"`
	Version string    `json:"ver"`
	Data    []float64 `json:"Data"`
	Status  string    `json:"status"`
}

type RealTimeAPI struct {
	httpClient *http.Client
	uri        string
	inverter   *Inverter
	info       *DeviceInfo
	logger     *zap.Logger
}

// CreateRealTimeAPI builds a realtime API client for an inverter reachable at
// host:port. The timeout bounds every HTTP exchange, retry cadence is up to
// the caller.
func CreateRealTimeAPI(host string, port uint, timeout time.Duration, logger *zap.Logger) *RealTimeAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RealTimeAPI{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		uri:    fmt.Sprintf("http://%s:%d%s", host, port, realTimeDataPath),
		logger: logger.With(zap.String("component", "solax_api")),
	}
}

// Open probes the realtime endpoint once to identify the inverter variant and
// capture its device info.
func (api *RealTimeAPI) Open() error {
	resp, err := api.fetch()
	if err != nil {
		return err
	}
	inverter, err := identifyInverter(resp)
	if err != nil {
		return err
	}
	api.inverter = inverter
	api.info = &DeviceInfo{
		Manufacturer: inverter.Manufacturer,
		Type:         resp.Type,
		Serial:       resp.SN,
		Version:      resp.Version,
	}
	api.logger.Debug("identified inverter",
		zap.String("type", resp.Type), zap.String("serial", resp.SN))
	return nil
}

func (api *RealTimeAPI) Close() error {
	api.httpClient.CloseIdleConnections()
	return nil
}

func (api *RealTimeAPI) GetInfo() (*DeviceInfo, error) {
	if api.info == nil {
		return nil, errors.New("solax: api not open")
	}
	info := *api.info
	return &info, nil
}

// SensorMap returns the field catalog of the identified variant. Empty until
// Open succeeds.
func (api *RealTimeAPI) SensorMap() []SensorDef {
	if api.inverter == nil {
		return nil
	}
	return api.inverter.SensorMap()
}

func (api *RealTimeAPI) GetRealTimeData() (*RealTimeData, error) {
	if api.inverter == nil {
		return nil, errors.New("solax: api not open")
	}
	resp, err := api.fetch()
	if err != nil {
		return nil, err
	}
	return &RealTimeData{
		Type:    resp.Type,
		Serial:  resp.SN,
		Version: resp.Version,
		Values:  api.inverter.decode(resp.Data),
	}, nil
}

func (api *RealTimeAPI) fetch() (*rawResponse, error) {
	httpResp, err := api.httpClient.Get(api.uri)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solax: unexpected status %d", httpResp.StatusCode)
	}
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	var resp rawResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("solax: malformed realtime response: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("solax: realtime response has no data")
	}
	return &resp, nil
}

func identifyInverter(resp *rawResponse) (*Inverter, error) {
	for _, inv := range knownInverters() {
		if inv.matches(resp) {
			return inv, nil
		}
	}
	return nil, fmt.Errorf("solax: unsupported inverter (type %q, %d values)", resp.Type, len(resp.Data))
}

// ensure interface compliance
var _ InverterAPIClient = (*RealTimeAPI)(nil)
