// Package app orchestrates request processing: validated representations
// go in, backend calls happen, model objects come out for rendering.
// Services are stateless; every object they build is request-scoped.
package app

import (
	"context"
	"fmt"

	"github.com/artpar/occigate/core/infra"
	"github.com/artpar/occigate/core/occi"
	"github.com/artpar/occigate/core/parser"
	"github.com/artpar/occigate/core/validation"
	"github.com/artpar/occigate/domain/occierr"
	"github.com/artpar/occigate/domain/openstack"
	"github.com/artpar/occigate/ports"
	"github.com/rs/zerolog"
)

// DefaultVMName is used when a create request carries no title.
const DefaultVMName = "OCCI VM"

// ComputeService translates compute operations to the backend.
type ComputeService struct {
	backend ports.Backend
	ids     ports.IDGenerator
	logger  zerolog.Logger
}

// NewComputeService creates a compute service.
func NewComputeService(backend ports.Backend, ids ports.IDGenerator, logger zerolog.Logger) *ComputeService {
	return &ComputeService{backend: backend, ids: ids, logger: logger}
}

// createScheme is what a compute creation must declare: the compute
// kind, one OS template, one resource template, and optionally the
// contextualization mixins.
func createScheme() validation.Scheme {
	return validation.Scheme{
		Category: infra.ComputeKind,
		Mixins: []*occi.Mixin{
			openstack.OSTemplateFamily,
			openstack.ResourceTemplateFamily,
		},
		OptionalMixins: []*occi.Mixin{
			openstack.UserData,
			openstack.PublicKey,
		},
	}
}

// Index lists the tenant's compute resources.
func (s *ComputeService) Index(ctx context.Context, tenant ports.Tenant) (*occi.Collection, error) {
	servers, err := s.backend.Index(ctx, tenant)
	if err != nil {
		return nil, err
	}
	resources := make([]*occi.Resource, len(servers))
	for i, server := range servers {
		resources[i] = occi.NewResource(server.ID, server.Name, infra.ComputeKind, nil)
	}
	return occi.NewResourceCollection(resources), nil
}

// Create validates a creation representation, boots a server and returns
// a collection holding the new resource with the backend's identifier.
func (s *ComputeService) Create(ctx context.Context, tenant ports.Tenant, rep *parser.Representation) (*occi.Collection, error) {
	if err := validation.Validate(rep, createScheme()); err != nil {
		return nil, err
	}

	name := DefaultVMName
	if title, ok := rep.Attributes["occi.core.title"].(string); ok && title != "" {
		name = title
	}
	image := rep.Schemes[openstack.OSTemplateScheme][0]
	flavor := rep.Schemes[openstack.ResourceTemplateScheme][0]

	var userData string
	if rep.HasScheme(openstack.UserData.Scheme) {
		userData, _ = rep.Attributes["org.openstack.compute.user_data"].(string)
	}

	server, err := s.backend.Create(ctx, tenant, ports.CreateServer{
		Name:     name,
		ImageID:  image,
		FlavorID: flavor,
		UserData: userData,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("server_id", server.ID).Str("name", name).Msg("compute created")

	// The backend response does not echo the name reliably.
	res := occi.NewResource(server.ID, name, infra.ComputeKind, nil)
	return occi.NewResourceCollection([]*occi.Resource{res}), nil
}

// Show retrieves one compute resource, enriched with its template mixins
// and its storage and network links.
func (s *ComputeService) Show(ctx context.Context, tenant ports.Tenant, id string) (*occi.Resource, error) {
	server, err := s.backend.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	flavor, err := s.backend.GetFlavor(ctx, tenant, server.FlavorID)
	if err != nil {
		return nil, err
	}
	image, err := s.backend.GetImage(ctx, tenant, server.ImageID)
	if err != nil {
		return nil, err
	}

	mixins := []*occi.Mixin{
		openstack.OSTemplate(image.ID, image.Name),
		openstack.ResourceTemplate(flavor.ID, flavor.Name, flavor.VCPUs, flavor.RAM, flavor.Disk),
	}
	res := occi.NewResource(server.ID, server.Name, infra.ComputeKind, mixins)
	attrs := map[string]any{
		"occi.compute.cores":    float64(flavor.VCPUs),
		"occi.compute.memory":   float64(flavor.RAM),
		"occi.compute.hostname": server.Name,
		"occi.compute.state":    openstack.VMState(server.Status),
	}
	for name, value := range attrs {
		if err := res.Set(name, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", name, err)
		}
	}

	if err := s.attachStorageLinks(ctx, tenant, res); err != nil {
		return nil, err
	}
	if err := s.attachNetworkLinks(ctx, tenant, res, server); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ComputeService) attachStorageLinks(ctx context.Context, tenant ports.Tenant, res *occi.Resource) error {
	attachments, err := s.backend.ListAttachments(ctx, tenant, res.ID)
	if err != nil {
		return err
	}
	for _, att := range attachments {
		link := occi.NewLink(s.ids.New(), infra.StorageLinkKind, nil, att.VolumeID, infra.StorageKind)
		if att.Device != "" {
			if err := link.Set("occi.storagelink.deviceid", att.Device); err != nil {
				return err
			}
		}
		res.AddLink(link)
	}
	return nil
}

func (s *ComputeService) attachNetworkLinks(ctx context.Context, tenant ports.Tenant, res *occi.Resource, server ports.Server) error {
	if len(server.Addresses) == 0 {
		return nil
	}
	floating, err := s.backend.ListFloatingIPs(ctx, tenant)
	if err != nil {
		return err
	}
	pools := make(map[string]string, len(floating))
	for _, ip := range floating {
		pools[ip.IP] = ip.Pool
	}

	for _, addrs := range server.Addresses {
		for _, addr := range addrs {
			target := "fixed"
			if addr.Type == "floating" {
				if pool, ok := pools[addr.Addr]; ok {
					target = "floating/" + pool
				}
			}
			link := occi.NewLink(s.ids.New(), infra.NetworkInterfaceKind,
				[]*occi.Mixin{infra.IPNetworkInterface}, target, infra.NetworkKind)
			fields := map[string]any{
				"occi.networkinterface.interface": "eth0",
				"occi.networkinterface.mac":       addr.MACAddr,
				"occi.networkinterface.state":     "active",
				"occi.networkinterface.address":   addr.Addr,
			}
			for name, value := range fields {
				if err := link.Set(name, value); err != nil {
					return err
				}
			}
			res.AddLink(link)
		}
	}
	return nil
}

// Delete removes one compute resource.
func (s *ComputeService) Delete(ctx context.Context, tenant ports.Tenant, id string) error {
	return s.backend.Delete(ctx, tenant, id)
}

// DeleteAll removes every compute resource of the tenant.
func (s *ComputeService) DeleteAll(ctx context.Context, tenant ports.Tenant) error {
	servers, err := s.backend.Index(ctx, tenant)
	if err != nil {
		return err
	}
	for _, server := range servers {
		if err := s.backend.Delete(ctx, tenant, server.ID); err != nil {
			return err
		}
	}
	return nil
}

// RunAction validates and runs a lifecycle action on one compute
// resource. The representation must declare the action's category.
func (s *ComputeService) RunAction(ctx context.Context, tenant ports.Tenant, id, term string, rep *parser.Representation) error {
	var action *occi.Action
	for _, a := range infra.ComputeKind.Actions {
		if a.Term == term {
			action = a
			break
		}
	}
	if action == nil {
		return occierr.InvalidAction(term)
	}

	if err := validation.Validate(rep, validation.Scheme{Category: action}); err != nil {
		return err
	}
	return s.backend.RunAction(ctx, tenant, id, term)
}
