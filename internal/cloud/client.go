package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smarteefi/smarteefi-bridge/internal/device"
)

// API paths under the base URL.
const (
	devicesPath       = "/user/devices"
	validateTokenPath = "/user/validatehatoken"
)

// maxResponseSize bounds inventory responses. A household has tens of
// devices, not megabytes of them.
const maxResponseSize = 1 << 20

// Logger defines the logging interface for the cloud client.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config holds cloud client configuration.
type Config struct {
	// BaseURL is the root of the cloud HTTP API.
	BaseURL string

	// Token is the account API token.
	Token string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Logger receives diagnostic output. Optional.
	Logger Logger
}

// Client fetches the device inventory from the Smarteefi cloud API.
//
// The bridge only ever reads the inventory; all device control runs
// over the local network.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  Logger
}

// deviceRecord is the wire form of one inventory entry.
type deviceRecord struct {
	ID      string `json:"id"`
	CloudID int    `json:"cloudid"`
	Type    string `json:"type"`
	Name    string `json:"name"`
}

// devicesRequest is the inventory request body.
type devicesRequest struct {
	UserDevice struct {
		HAToken string `json:"hatoken"`
	} `json:"UserDevice"`
}

// devicesResponse is the inventory response body.
type devicesResponse struct {
	Result  string         `json:"result"`
	Devices []deviceRecord `json:"devices"`
}

// New creates a cloud Client.
//
// Parameters:
//   - cfg: Client configuration
//
// Returns:
//   - *Client: Ready client; no I/O happens until FetchDevices
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FetchDevices retrieves the account's device inventory.
//
// Records whose type maps to no supported class are skipped with a
// warning rather than failing the whole fetch: the account may own
// device kinds the bridge does not handle.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - []device.Device: Supported devices in inventory order
//   - error: ErrRequestFailed or ErrUnexpectedResponse
func (c *Client) FetchDevices(ctx context.Context) ([]device.Device, error) {
	parsed, err := c.postUserDevice(ctx, devicesPath)
	if err != nil {
		return nil, err
	}
	if parsed.Result != "success" {
		return nil, fmt.Errorf("%w: result %q", ErrUnexpectedResponse, parsed.Result)
	}

	devices := make([]device.Device, 0, len(parsed.Devices))
	for _, rec := range parsed.Devices {
		class, err := device.ParseClass(rec.Type)
		if err != nil {
			c.logger.Warn("skipping device with unsupported type",
				"device_id", rec.ID,
				"type", rec.Type,
			)
			continue
		}
		devices = append(devices, device.Device{
			ID:      rec.ID,
			CloudID: rec.CloudID,
			Class:   class,
			Name:    rec.Name,
		})
	}

	c.logger.Info("device inventory fetched", "count", len(devices))
	return devices, nil
}

// ValidateToken checks the configured token against the cloud API.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: ErrRequestFailed when the API is unreachable,
//     ErrInvalidToken when it answers but rejects the token
func (c *Client) ValidateToken(ctx context.Context) error {
	parsed, err := c.postUserDevice(ctx, validateTokenPath)
	if err != nil {
		return err
	}
	if parsed.Result != "success" {
		return fmt.Errorf("%w: result %q", ErrInvalidToken, parsed.Result)
	}
	return nil
}

// postUserDevice sends the standard token-bearing request body to path
// and decodes the response envelope. FetchDevices and ValidateToken
// share it; the API uses the same shape for both.
func (c *Client) postUserDevice(ctx context.Context, path string) (*devicesResponse, error) {
	var reqBody devicesRequest
	reqBody.UserDevice.HAToken = c.token

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, body)
	}

	var parsed devicesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding body: %v", ErrUnexpectedResponse, err)
	}
	return &parsed, nil
}
