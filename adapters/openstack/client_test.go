package openstack_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/artpar/occigate/adapters/metrics"
	"github.com/artpar/occigate/adapters/openstack"
	"github.com/artpar/occigate/domain/occierr"
	"github.com/artpar/occigate/ports"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var testTenant = ports.Tenant{ID: "tenant-1", Token: "tok-abc"}

// fakeBackend builds a minimal Nova-compatible test server.
func fakeBackend(t *testing.T, handler http.HandlerFunc) *openstack.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := openstack.NewClient(openstack.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestClient_Index(t *testing.T) {
	client := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tenant-1/servers/detail" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("X-Auth-Token") != "tok-abc" {
			t.Errorf("token = %q", r.Header.Get("X-Auth-Token"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"servers": []map[string]any{
				{"id": "s1", "name": "vm one", "status": "ACTIVE",
					"flavor": map[string]string{"id": "f1"},
					"image":  map[string]string{"id": "i1"}},
				{"id": "s2", "name": "vm two", "status": "SHUTOFF",
					"flavor": map[string]string{"id": "f2"},
					"image":  map[string]string{"id": "i2"}},
			},
		})
	})

	servers, err := client.Index(context.Background(), testTenant)
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("len = %d, want 2", len(servers))
	}
	if servers[0].ID != "s1" || servers[0].FlavorID != "f1" || servers[0].Status != "ACTIVE" {
		t.Errorf("servers[0] = %+v", servers[0])
	}
}

func TestClient_Get_Addresses(t *testing.T) {
	client := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"server": map[string]any{
				"id": "s1", "name": "vm", "status": "ACTIVE",
				"flavor": map[string]string{"id": "f1"},
				"image":  map[string]string{"id": "i1"},
				"addresses": map[string]any{
					"private": []map[string]any{
						{"addr": "10.0.0.4", "OS-EXT-IPS-MAC:mac_addr": "fa:16:3e:00:00:01", "OS-EXT-IPS:type": "fixed"},
						{"addr": "172.24.4.10", "OS-EXT-IPS-MAC:mac_addr": "fa:16:3e:00:00:01", "OS-EXT-IPS:type": "floating"},
					},
				},
			},
		})
	})

	server, err := client.Get(context.Background(), testTenant, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	addrs := server.Addresses["private"]
	if len(addrs) != 2 {
		t.Fatalf("addresses = %+v", server.Addresses)
	}
	if addrs[1].Type != "floating" || addrs[1].Addr != "172.24.4.10" {
		t.Errorf("addrs[1] = %+v", addrs[1])
	}
	if addrs[0].MACAddr != "fa:16:3e:00:00:01" {
		t.Errorf("mac = %q", addrs[0].MACAddr)
	}
}

func TestClient_Create(t *testing.T) {
	client := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tenant-1/servers" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var in map[string]map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatal(err)
		}
		server := in["server"]
		if server["name"] != "myvm" || server["imageRef"] != "i1" || server["flavorRef"] != "f1" {
			t.Errorf("create body = %+v", server)
		}
		if server["user_data"] != "#cloud-config" {
			t.Errorf("user_data = %v", server["user_data"])
		}
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"server": map[string]any{"id": "s-new", "status": "BUILD"},
		})
	})

	server, err := client.Create(context.Background(), testTenant, ports.CreateServer{
		Name: "myvm", ImageID: "i1", FlavorID: "f1", UserData: "#cloud-config",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if server.ID != "s-new" {
		t.Errorf("ID = %q", server.ID)
	}
}

func TestClient_RunAction_Bodies(t *testing.T) {
	tests := []struct {
		action  string
		wantKey string
	}{
		{"start", "os-start"},
		{"stop", "os-stop"},
		{"restart", "reboot"},
		{"suspend", "suspend"},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			client := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/tenant-1/servers/s1/action" {
					t.Errorf("path = %s", r.URL.Path)
				}
				var in map[string]json.RawMessage
				if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
					t.Fatal(err)
				}
				if _, ok := in[tt.wantKey]; !ok {
					t.Errorf("body = %v, want key %s", in, tt.wantKey)
				}
				if tt.action == "restart" {
					var reboot map[string]string
					if err := json.Unmarshal(in["reboot"], &reboot); err != nil || reboot["type"] != "SOFT" {
						t.Errorf("reboot body = %s", in["reboot"])
					}
				}
				w.WriteHeader(http.StatusAccepted)
			})

			if err := client.RunAction(context.Background(), testTenant, "s1", tt.action); err != nil {
				t.Errorf("RunAction(%s) error = %v", tt.action, err)
			}
		})
	}
}

func TestClient_RunAction_Unknown(t *testing.T) {
	client := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unknown action must not reach the backend")
	})
	err := client.RunAction(context.Background(), testTenant, "s1", "explode")
	var e *occierr.Error
	if !errors.As(err, &e) || e.Code != occierr.CodeInvalidAction {
		t.Errorf("error = %v, want %s", err, occierr.CodeInvalidAction)
	}
}

func TestClient_FaultPassthrough(t *testing.T) {
	client := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"itemNotFound": map[string]any{"message": "Instance could not be found", "code": 404},
		})
	})

	_, err := client.Get(context.Background(), testTenant, "absent")
	var e *occierr.Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v", err)
	}
	if e.Status != 404 {
		t.Errorf("Status = %d, want 404", e.Status)
	}
	if e.Message != "Instance could not be found" {
		t.Errorf("Message = %q", e.Message)
	}
}

func TestClient_UnmappedStatusDegrades(t *testing.T) {
	client := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"computeFault": {"message": "secret detail"}}`))
	})

	_, err := client.Get(context.Background(), testTenant, "s1")
	var e *occierr.Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v", err)
	}
	if e.Status != 500 || e.Message != "internal error" {
		t.Errorf("error = %+v, unmapped statuses must degrade", e)
	}
}

func TestClient_Unreachable(t *testing.T) {
	client, err := openstack.NewClient(openstack.Config{
		BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Index(context.Background(), testTenant)
	var e *occierr.Error
	if !errors.As(err, &e) || e.Status != http.StatusServiceUnavailable {
		t.Errorf("error = %v, want a 503", err)
	}
}

func TestClient_Update_RepointsBackend(t *testing.T) {
	var hitA, hitB bool
	srvA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitA = true
		json.NewEncoder(w).Encode(map[string]any{"servers": []any{}})
	}))
	t.Cleanup(srvA.Close)
	srvB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitB = true
		json.NewEncoder(w).Encode(map[string]any{"servers": []any{}})
	}))
	t.Cleanup(srvB.Close)

	client, err := openstack.NewClient(openstack.Config{BaseURL: srvA.URL, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })

	if _, err := client.Index(context.Background(), testTenant); err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if !hitA || hitB {
		t.Fatalf("before update: hitA = %v, hitB = %v", hitA, hitB)
	}

	if err := client.Update(openstack.Config{BaseURL: srvB.URL, Timeout: time.Second}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := client.Index(context.Background(), testTenant); err != nil {
		t.Fatalf("Index() after update error = %v", err)
	}
	if !hitB {
		t.Error("update did not repoint the client")
	}
}

func TestClient_ObservesCalls(t *testing.T) {
	collector, _ := metrics.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/tenant-1/servers/detail" {
			json.NewEncoder(w).Encode(map[string]any{"servers": []any{}})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"itemNotFound": map[string]any{"message": "Instance could not be found"},
		})
	}))
	t.Cleanup(srv.Close)

	client, err := openstack.NewClient(openstack.Config{
		BaseURL: srv.URL, Timeout: 2 * time.Second, Metrics: collector,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	if _, err := client.Index(ctx, testTenant); err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	if _, err := client.Get(ctx, testTenant, "absent"); err == nil {
		t.Fatal("Get(absent) succeeded")
	}

	if got := testutil.CollectAndCount(collector.BackendDuration); got != 2 {
		t.Errorf("duration series = %d, want one per operation", got)
	}
	if got := testutil.ToFloat64(collector.BackendErrors.WithLabelValues("get", "404")); got != 1 {
		t.Errorf("backend errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.BackendErrors.WithLabelValues("index", "404")); got != 0 {
		t.Errorf("index errors = %v, want 0", got)
	}
}

func TestClient_Volumes(t *testing.T) {
	client := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/tenant-1/os-volumes":
			json.NewEncoder(w).Encode(map[string]any{
				"volumes": []map[string]any{
					{"id": "v1", "displayName": "data", "status": "available", "size": 10},
				},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/tenant-1/os-volumes":
			var in map[string]map[string]any
			json.NewDecoder(r.Body).Decode(&in)
			if in["volume"]["display_name"] != "new vol" || in["volume"]["size"] != 20.0 {
				t.Errorf("create body = %+v", in)
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]any{
				"volume": map[string]any{"id": "v2", "displayName": "new vol", "status": "creating", "size": 20},
			})
		case r.Method == http.MethodDelete && r.URL.Path == "/tenant-1/os-volumes/v1":
			w.WriteHeader(http.StatusAccepted)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	volumes, err := client.ListVolumes(ctx, testTenant)
	if err != nil || len(volumes) != 1 || volumes[0].Name != "data" {
		t.Errorf("ListVolumes() = %+v, %v", volumes, err)
	}

	vol, err := client.CreateVolume(ctx, testTenant, ports.CreateVolume{Name: "new vol", Size: 20})
	if err != nil || vol.ID != "v2" {
		t.Errorf("CreateVolume() = %+v, %v", vol, err)
	}

	if err := client.DeleteVolume(ctx, testTenant, "v1"); err != nil {
		t.Errorf("DeleteVolume() error = %v", err)
	}
}

func TestClient_Attachments(t *testing.T) {
	client := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tenant-1/servers/s1/os-volume_attachments" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"volumeAttachments": []map[string]any{
				{"volumeId": "v1", "serverId": "s1", "device": "/dev/vdb"},
			},
		})
	})

	atts, err := client.ListAttachments(context.Background(), testTenant, "s1")
	if err != nil || len(atts) != 1 || atts[0].Device != "/dev/vdb" {
		t.Errorf("ListAttachments() = %+v, %v", atts, err)
	}
}
