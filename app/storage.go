package app

import (
	"context"

	"github.com/artpar/occigate/core/infra"
	"github.com/artpar/occigate/core/occi"
	"github.com/artpar/occigate/core/parser"
	"github.com/artpar/occigate/core/validation"
	"github.com/artpar/occigate/domain/occierr"
	"github.com/artpar/occigate/domain/openstack"
	"github.com/artpar/occigate/ports"
	"github.com/rs/zerolog"
)

// DefaultVolumeName is used when a create request carries no title.
const DefaultVolumeName = "OCCI Volume"

// StorageService translates block storage operations to the backend.
type StorageService struct {
	backend ports.Backend
	logger  zerolog.Logger
}

// NewStorageService creates a storage service.
func NewStorageService(backend ports.Backend, logger zerolog.Logger) *StorageService {
	return &StorageService{backend: backend, logger: logger}
}

// Index lists the tenant's storage resources.
func (s *StorageService) Index(ctx context.Context, tenant ports.Tenant) (*occi.Collection, error) {
	volumes, err := s.backend.ListVolumes(ctx, tenant)
	if err != nil {
		return nil, err
	}
	resources := make([]*occi.Resource, len(volumes))
	for i, vol := range volumes {
		resources[i] = occi.NewResource(vol.ID, vol.Name, infra.StorageKind, nil)
	}
	return occi.NewResourceCollection(resources), nil
}

// Show retrieves one storage resource with its size and state.
func (s *StorageService) Show(ctx context.Context, tenant ports.Tenant, id string) (*occi.Resource, error) {
	vol, err := s.backend.GetVolume(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	res := occi.NewResource(vol.ID, vol.Name, infra.StorageKind, nil)
	if err := res.Set("occi.storage.size", float64(vol.Size)); err != nil {
		return nil, err
	}
	if err := res.Set("occi.storage.state", openstack.VolumeState(vol.Status)); err != nil {
		return nil, err
	}
	return res, nil
}

// Create validates a creation representation and provisions a volume.
// The required size attribute is enforced by the storage kind.
func (s *StorageService) Create(ctx context.Context, tenant ports.Tenant, rep *parser.Representation) (*occi.Collection, error) {
	if err := validation.Validate(rep, validation.Scheme{Category: infra.StorageKind}); err != nil {
		return nil, err
	}

	name := DefaultVolumeName
	if title, ok := rep.Attributes["occi.core.title"].(string); ok && title != "" {
		name = title
	}
	size, _ := rep.Attributes["occi.storage.size"].(float64)

	vol, err := s.backend.CreateVolume(ctx, tenant, ports.CreateVolume{
		Name: name,
		Size: int(size),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("volume_id", vol.ID).Str("name", name).Msg("storage created")

	res := occi.NewResource(vol.ID, name, infra.StorageKind, nil)
	return occi.NewResourceCollection([]*occi.Resource{res}), nil
}

// Delete removes one storage resource.
func (s *StorageService) Delete(ctx context.Context, tenant ports.Tenant, id string) error {
	return s.backend.DeleteVolume(ctx, tenant, id)
}

// DeleteAll removes every storage resource of the tenant.
func (s *StorageService) DeleteAll(ctx context.Context, tenant ports.Tenant) error {
	volumes, err := s.backend.ListVolumes(ctx, tenant)
	if err != nil {
		return err
	}
	for _, vol := range volumes {
		if err := s.backend.DeleteVolume(ctx, tenant, vol.ID); err != nil {
			return err
		}
	}
	return nil
}

// RunAction validates a storage action. The backend offers no volume
// lifecycle calls, so every declared action answers 501.
func (s *StorageService) RunAction(ctx context.Context, tenant ports.Tenant, id, term string, rep *parser.Representation) error {
	var action *occi.Action
	for _, a := range infra.StorageKind.Actions {
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
	return occierr.NotImplemented("storage action " + term)
}
