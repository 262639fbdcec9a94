package app_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/artpar/occigate/core/parser"
	"github.com/artpar/occigate/domain/occierr"
	"github.com/artpar/occigate/ports"
	"github.com/rs/zerolog"
)

var testTenant = ports.Tenant{ID: "tenant-1", Token: "tok"}

// fakeBackend is an in-memory ports.Backend recording the calls the
// services make.
type fakeBackend struct {
	servers     []ports.Server
	flavors     map[string]ports.Flavor
	images      map[string]ports.Image
	attachments map[string][]ports.VolumeAttachment
	floatingIPs []ports.FloatingIP
	volumes     []ports.Volume

	created        []ports.CreateServer
	createdVolumes []ports.CreateVolume
	deleted        []string
	deletedVolumes []string
	actions        []string

	err error
}

func (f *fakeBackend) Index(ctx context.Context, tenant ports.Tenant) ([]ports.Server, error) {
	return f.servers, f.err
}

func (f *fakeBackend) Get(ctx context.Context, tenant ports.Tenant, id string) (ports.Server, error) {
	if f.err != nil {
		return ports.Server{}, f.err
	}
	for _, s := range f.servers {
		if s.ID == id {
			return s, nil
		}
	}
	return ports.Server{}, occierr.FromBackend(http.StatusNotFound, "Instance could not be found")
}

func (f *fakeBackend) Create(ctx context.Context, tenant ports.Tenant, req ports.CreateServer) (ports.Server, error) {
	if f.err != nil {
		return ports.Server{}, f.err
	}
	f.created = append(f.created, req)
	return ports.Server{ID: "srv-new", Status: "BUILD"}, nil
}

func (f *fakeBackend) Delete(ctx context.Context, tenant ports.Tenant, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeBackend) RunAction(ctx context.Context, tenant ports.Tenant, id, action string) error {
	f.actions = append(f.actions, id+":"+action)
	return f.err
}

func (f *fakeBackend) GetFlavor(ctx context.Context, tenant ports.Tenant, id string) (ports.Flavor, error) {
	fl, ok := f.flavors[id]
	if !ok {
		return ports.Flavor{}, occierr.FromBackend(http.StatusNotFound, "flavor not found")
	}
	return fl, nil
}

func (f *fakeBackend) GetImage(ctx context.Context, tenant ports.Tenant, id string) (ports.Image, error) {
	img, ok := f.images[id]
	if !ok {
		return ports.Image{}, occierr.FromBackend(http.StatusNotFound, "image not found")
	}
	return img, nil
}

func (f *fakeBackend) ListAttachments(ctx context.Context, tenant ports.Tenant, serverID string) ([]ports.VolumeAttachment, error) {
	return f.attachments[serverID], nil
}

func (f *fakeBackend) ListFloatingIPs(ctx context.Context, tenant ports.Tenant) ([]ports.FloatingIP, error) {
	return f.floatingIPs, nil
}

func (f *fakeBackend) ListVolumes(ctx context.Context, tenant ports.Tenant) ([]ports.Volume, error) {
	return f.volumes, f.err
}

func (f *fakeBackend) GetVolume(ctx context.Context, tenant ports.Tenant, id string) (ports.Volume, error) {
	if f.err != nil {
		return ports.Volume{}, f.err
	}
	for _, v := range f.volumes {
		if v.ID == id {
			return v, nil
		}
	}
	return ports.Volume{}, occierr.FromBackend(http.StatusNotFound, "volume not found")
}

func (f *fakeBackend) CreateVolume(ctx context.Context, tenant ports.Tenant, req ports.CreateVolume) (ports.Volume, error) {
	if f.err != nil {
		return ports.Volume{}, f.err
	}
	f.createdVolumes = append(f.createdVolumes, req)
	return ports.Volume{ID: "vol-new", Name: req.Name, Status: "creating", Size: req.Size}, nil
}

func (f *fakeBackend) DeleteVolume(ctx context.Context, tenant ports.Tenant, id string) error {
	f.deletedVolumes = append(f.deletedVolumes, id)
	return f.err
}

var _ ports.Backend = (*fakeBackend)(nil)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// parseBody runs the plain text parser over a request body.
func parseBody(t *testing.T, body string) *parser.Representation {
	t.Helper()
	rep, err := (&parser.TextParser{}).Parse(nil, []byte(body))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return rep
}
