// Package openstack implements the backend collaborator against a
// Nova-compatible compute API.
package openstack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/artpar/occigate/adapters/metrics"
	"github.com/artpar/occigate/domain/occierr"
	"github.com/artpar/occigate/ports"
)

// Client issues requests against the backend compute API. The base URL
// and timeout can be swapped at runtime by a config reload.
type Client struct {
	mu      sync.RWMutex
	client  *http.Client
	baseURL *url.URL
	metrics *metrics.Collector
}

// Config contains configuration for the backend client.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration

	// Metrics, when set, records per-operation call durations and
	// failures.
	Metrics *metrics.Collector
}

// NewClient creates a new backend client.
func NewClient(cfg Config) (*Client, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = 100
	}
	idleConnTimeout := cfg.IdleConnTimeout
	if idleConnTimeout == 0 {
		idleConnTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConns,
		IdleConnTimeout:     idleConnTimeout,
	}

	return &Client{
		client:  &http.Client{Transport: transport, Timeout: timeoutOrDefault(cfg.Timeout)},
		baseURL: baseURL,
		metrics: cfg.Metrics,
	}, nil
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d == 0 {
		return 30 * time.Second
	}
	return d
}

// Update applies the reloadable settings, base URL and request timeout,
// to a running client. The transport and its connection pool are kept.
func (c *Client) Update(cfg Config) error {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}

	c.mu.Lock()
	c.baseURL = baseURL
	c.client = &http.Client{Transport: c.client.Transport, Timeout: timeoutOrDefault(cfg.Timeout)}
	c.mu.Unlock()
	return nil
}

// Close closes idle backend connections.
func (c *Client) Close() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.client.CloseIdleConnections()
	return nil
}

// do executes one backend call, records its duration and outcome under
// the operation label, and decodes the response into out when the status
// is one of expected.
func (c *Client) do(ctx context.Context, op string, tenant ports.Tenant, method, path string, body any, out any, expected ...int) error {
	start := time.Now()
	err := c.roundTrip(ctx, tenant, method, path, body, out, expected)
	if c.metrics != nil {
		c.metrics.BackendDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		if err != nil {
			c.metrics.BackendErrors.WithLabelValues(op, strconv.Itoa(occierr.Status(err))).Inc()
		}
	}
	return err
}

// roundTrip issues the HTTP call. Unexpected statuses are translated
// into a protocol error carrying the backend's fault message.
func (c *Client) roundTrip(ctx context.Context, tenant ports.Tenant, method, path string, body any, out any, expected []int) error {
	c.mu.RLock()
	client, base := c.client, c.baseURL
	c.mu.RUnlock()

	ref := &url.URL{Path: base.Path + "/" + tenant.ID + path}
	target := base.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tenant.Token != "" {
		req.Header.Set("X-Auth-Token", tenant.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return occierr.FromBackend(http.StatusServiceUnavailable, fmt.Sprintf("backend unreachable: %v", err))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // 10MB limit
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	for _, status := range expected {
		if resp.StatusCode == status {
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(payload, out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}
	}
	return faultError(resp.StatusCode, payload)
}

// faultError converts a backend fault body into a protocol error.
// Faults arrive as {"<kind>": {"message": "...", "code": N}}.
func faultError(status int, payload []byte) error {
	var fault map[string]struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &fault); err == nil {
		for _, f := range fault {
			if f.Message != "" {
				return occierr.FromBackend(status, f.Message)
			}
		}
	}
	return occierr.FromBackend(status, http.StatusText(status))
}

// Wire shapes of the backend API.

type serverDoc struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Status    string                  `json:"status"`
	Flavor    refDoc                  `json:"flavor"`
	Image     refDoc                  `json:"image"`
	Addresses map[string][]addressDoc `json:"addresses"`
}

type refDoc struct {
	ID string `json:"id"`
}

type addressDoc struct {
	Addr    string `json:"addr"`
	MACAddr string `json:"OS-EXT-IPS-MAC:mac_addr"`
	Type    string `json:"OS-EXT-IPS:type"`
}

func (d serverDoc) toServer() ports.Server {
	s := ports.Server{
		ID:       d.ID,
		Name:     d.Name,
		Status:   d.Status,
		FlavorID: d.Flavor.ID,
		ImageID:  d.Image.ID,
	}
	if len(d.Addresses) > 0 {
		s.Addresses = make(map[string][]ports.Address, len(d.Addresses))
		for net, addrs := range d.Addresses {
			for _, a := range addrs {
				s.Addresses[net] = append(s.Addresses[net], ports.Address{
					Addr:    a.Addr,
					MACAddr: a.MACAddr,
					Type:    a.Type,
				})
			}
		}
	}
	return s
}

// Index lists the tenant's servers.
func (c *Client) Index(ctx context.Context, tenant ports.Tenant) ([]ports.Server, error) {
	var out struct {
		Servers []serverDoc `json:"servers"`
	}
	if err := c.do(ctx, "index", tenant, http.MethodGet, "/servers/detail", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	servers := make([]ports.Server, len(out.Servers))
	for i, doc := range out.Servers {
		servers[i] = doc.toServer()
	}
	return servers, nil
}

// Get retrieves one server.
func (c *Client) Get(ctx context.Context, tenant ports.Tenant, id string) (ports.Server, error) {
	var out struct {
		Server serverDoc `json:"server"`
	}
	if err := c.do(ctx, "get", tenant, http.MethodGet, "/servers/"+id, nil, &out, http.StatusOK); err != nil {
		return ports.Server{}, err
	}
	return out.Server.toServer(), nil
}

// Create boots a new server.
func (c *Client) Create(ctx context.Context, tenant ports.Tenant, req ports.CreateServer) (ports.Server, error) {
	server := map[string]any{
		"name":      req.Name,
		"imageRef":  req.ImageID,
		"flavorRef": req.FlavorID,
	}
	if req.UserData != "" {
		server["user_data"] = req.UserData
	}
	var out struct {
		Server serverDoc `json:"server"`
	}
	err := c.do(ctx, "create", tenant, http.MethodPost, "/servers", map[string]any{"server": server}, &out,
		http.StatusOK, http.StatusCreated, http.StatusAccepted)
	if err != nil {
		return ports.Server{}, err
	}
	return out.Server.toServer(), nil
}

// Delete removes a server.
func (c *Client) Delete(ctx context.Context, tenant ports.Tenant, id string) error {
	return c.do(ctx, "delete", tenant, http.MethodDelete, "/servers/"+id, nil, nil, http.StatusNoContent)
}

// actionBodies maps protocol action terms to backend action payloads.
var actionBodies = map[string]map[string]any{
	"start":   {"os-start": nil},
	"stop":    {"os-stop": nil},
	"restart": {"reboot": map[string]string{"type": "SOFT"}},
	"suspend": {"suspend": nil},
}

// RunAction runs a lifecycle action on a server.
func (c *Client) RunAction(ctx context.Context, tenant ports.Tenant, id, action string) error {
	body, ok := actionBodies[action]
	if !ok {
		return occierr.InvalidAction(action)
	}
	return c.do(ctx, "action", tenant, http.MethodPost, "/servers/"+id+"/action", body, nil, http.StatusAccepted)
}

// GetFlavor retrieves one sizing template.
func (c *Client) GetFlavor(ctx context.Context, tenant ports.Tenant, id string) (ports.Flavor, error) {
	var out struct {
		Flavor struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			VCPUs int    `json:"vcpus"`
			RAM   int    `json:"ram"`
			Disk  int    `json:"disk"`
		} `json:"flavor"`
	}
	if err := c.do(ctx, "get_flavor", tenant, http.MethodGet, "/flavors/"+id, nil, &out, http.StatusOK); err != nil {
		return ports.Flavor{}, err
	}
	return ports.Flavor{
		ID:    out.Flavor.ID,
		Name:  out.Flavor.Name,
		VCPUs: out.Flavor.VCPUs,
		RAM:   out.Flavor.RAM,
		Disk:  out.Flavor.Disk,
	}, nil
}

// GetImage retrieves one OS template.
func (c *Client) GetImage(ctx context.Context, tenant ports.Tenant, id string) (ports.Image, error) {
	var out struct {
		Image struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"image"`
	}
	if err := c.do(ctx, "get_image", tenant, http.MethodGet, "/images/"+id, nil, &out, http.StatusOK); err != nil {
		return ports.Image{}, err
	}
	return ports.Image{ID: out.Image.ID, Name: out.Image.Name}, nil
}

// ListAttachments lists the volume attachments of a server.
func (c *Client) ListAttachments(ctx context.Context, tenant ports.Tenant, serverID string) ([]ports.VolumeAttachment, error) {
	var out struct {
		Attachments []struct {
			VolumeID string `json:"volumeId"`
			ServerID string `json:"serverId"`
			Device   string `json:"device"`
		} `json:"volumeAttachments"`
	}
	err := c.do(ctx, "list_attachments", tenant, http.MethodGet, "/servers/"+serverID+"/os-volume_attachments", nil, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	attachments := make([]ports.VolumeAttachment, len(out.Attachments))
	for i, a := range out.Attachments {
		attachments[i] = ports.VolumeAttachment{VolumeID: a.VolumeID, ServerID: a.ServerID, Device: a.Device}
	}
	return attachments, nil
}

// ListFloatingIPs lists the tenant's floating addresses.
func (c *Client) ListFloatingIPs(ctx context.Context, tenant ports.Tenant) ([]ports.FloatingIP, error) {
	var out struct {
		FloatingIPs []struct {
			IP   string `json:"ip"`
			Pool string `json:"pool"`
		} `json:"floating_ips"`
	}
	if err := c.do(ctx, "list_floating_ips", tenant, http.MethodGet, "/os-floating-ips", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	ips := make([]ports.FloatingIP, len(out.FloatingIPs))
	for i, ip := range out.FloatingIPs {
		ips[i] = ports.FloatingIP{IP: ip.IP, Pool: ip.Pool}
	}
	return ips, nil
}

type volumeDoc struct {
	ID     string `json:"id"`
	Name   string `json:"displayName"`
	Status string `json:"status"`
	Size   int    `json:"size"`
}

func (d volumeDoc) toVolume() ports.Volume {
	return ports.Volume{ID: d.ID, Name: d.Name, Status: d.Status, Size: d.Size}
}

// ListVolumes lists the tenant's volumes.
func (c *Client) ListVolumes(ctx context.Context, tenant ports.Tenant) ([]ports.Volume, error) {
	var out struct {
		Volumes []volumeDoc `json:"volumes"`
	}
	if err := c.do(ctx, "list_volumes", tenant, http.MethodGet, "/os-volumes", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	volumes := make([]ports.Volume, len(out.Volumes))
	for i, doc := range out.Volumes {
		volumes[i] = doc.toVolume()
	}
	return volumes, nil
}

// GetVolume retrieves one volume.
func (c *Client) GetVolume(ctx context.Context, tenant ports.Tenant, id string) (ports.Volume, error) {
	var out struct {
		Volume volumeDoc `json:"volume"`
	}
	if err := c.do(ctx, "get_volume", tenant, http.MethodGet, "/os-volumes/"+id, nil, &out, http.StatusOK); err != nil {
		return ports.Volume{}, err
	}
	return out.Volume.toVolume(), nil
}

// CreateVolume provisions a new volume.
func (c *Client) CreateVolume(ctx context.Context, tenant ports.Tenant, req ports.CreateVolume) (ports.Volume, error) {
	body := map[string]any{"volume": map[string]any{
		"display_name": req.Name,
		"size":         req.Size,
	}}
	var out struct {
		Volume volumeDoc `json:"volume"`
	}
	err := c.do(ctx, "create_volume", tenant, http.MethodPost, "/os-volumes", body, &out,
		http.StatusOK, http.StatusCreated, http.StatusAccepted)
	if err != nil {
		return ports.Volume{}, err
	}
	return out.Volume.toVolume(), nil
}

// DeleteVolume removes a volume.
func (c *Client) DeleteVolume(ctx context.Context, tenant ports.Tenant, id string) error {
	return c.do(ctx, "delete_volume", tenant, http.MethodDelete, "/os-volumes/"+id, nil, nil,
		http.StatusNoContent, http.StatusAccepted)
}

// Ensure interface compliance.
var _ ports.Backend = (*Client)(nil)
