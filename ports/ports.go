// Package ports defines interfaces (contracts) between layers. These
// interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// IDGenerator generates unique identifiers for entities the backend does
// not name (links, request ids).
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Backend Collaborator
// -----------------------------------------------------------------------------

// Tenant identifies the caller towards the backend. Authentication and
// tenant resolution happen outside this system; the values are carried
// through from the inbound request.
type Tenant struct {
	ID    string
	Token string
}

// Server is the backend-native compute object.
type Server struct {
	ID        string
	Name      string
	Status    string
	FlavorID  string
	ImageID   string
	Addresses map[string][]Address
}

// Address is one address entry of a server.
type Address struct {
	Addr    string
	MACAddr string
	Type    string
	Pool    string
}

// Flavor is the backend-native sizing template.
type Flavor struct {
	ID    string
	Name  string
	VCPUs int
	RAM   int
	Disk  int
}

// Image is the backend-native OS template.
type Image struct {
	ID   string
	Name string
}

// Volume is the backend-native block storage object.
type Volume struct {
	ID     string
	Name   string
	Status string
	Size   int
}

// VolumeAttachment links a server to a volume.
type VolumeAttachment struct {
	VolumeID string
	ServerID string
	Device   string
}

// FloatingIP is a backend-native floating address.
type FloatingIP struct {
	IP   string
	Pool string
}

// CreateServer carries the attributes of a server creation call.
type CreateServer struct {
	Name     string
	ImageID  string
	FlavorID string
	UserData string
}

// CreateVolume carries the attributes of a volume creation call.
type CreateVolume struct {
	Name string
	Size int
}

// Backend is the cloud management API this system fronts. Calls are
// synchronous and block the request's worker; failures surface
// immediately as protocol errors carrying the backend's status and
// message. The core imposes no retry, backoff or timeout policy.
type Backend interface {
	// Index lists the tenant's servers.
	Index(ctx context.Context, tenant Tenant) ([]Server, error)

	// Get retrieves one server.
	Get(ctx context.Context, tenant Tenant, id string) (Server, error)

	// Create boots a new server and returns the backend's object,
	// including the identifier it assigned.
	Create(ctx context.Context, tenant Tenant, req CreateServer) (Server, error)

	// Delete removes a server.
	Delete(ctx context.Context, tenant Tenant, id string) error

	// RunAction runs a lifecycle action ("start", "stop", "restart",
	// "suspend") on a server.
	RunAction(ctx context.Context, tenant Tenant, id, action string) error

	// GetFlavor retrieves one sizing template.
	GetFlavor(ctx context.Context, tenant Tenant, id string) (Flavor, error)

	// GetImage retrieves one OS template.
	GetImage(ctx context.Context, tenant Tenant, id string) (Image, error)

	// ListAttachments lists the volume attachments of a server.
	ListAttachments(ctx context.Context, tenant Tenant, serverID string) ([]VolumeAttachment, error)

	// ListFloatingIPs lists the tenant's floating addresses.
	ListFloatingIPs(ctx context.Context, tenant Tenant) ([]FloatingIP, error)

	// ListVolumes lists the tenant's volumes.
	ListVolumes(ctx context.Context, tenant Tenant) ([]Volume, error)

	// GetVolume retrieves one volume.
	GetVolume(ctx context.Context, tenant Tenant, id string) (Volume, error)

	// CreateVolume provisions a new volume.
	CreateVolume(ctx context.Context, tenant Tenant, req CreateVolume) (Volume, error)

	// DeleteVolume removes a volume.
	DeleteVolume(ctx context.Context, tenant Tenant, id string) error
}
