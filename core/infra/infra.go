// Package infra declares the OCCI core and infrastructure taxonomy:
// the base entity/resource/link kinds, the compute/network/storage
// kinds with their actions, the link kinds, and the template mixin
// bases. Definitions are registered once at start-up and immutable
// thereafter.
package infra

import (
	"github.com/artpar/occigate/core/occi"
	"github.com/artpar/occigate/core/registry"
)

// Schemes of the standard taxonomy.
const (
	CoreScheme           = "http://schemas.ogf.org/occi/core#"
	InfraScheme          = "http://schemas.ogf.org/occi/infrastructure#"
	ComputeActionScheme  = "http://schemas.ogf.org/occi/infrastructure/compute/action#"
	NetworkActionScheme  = "http://schemas.ogf.org/occi/infrastructure/network/action#"
	StorageActionScheme  = "http://schemas.ogf.org/occi/infrastructure/storage/action#"
	NetworkMixinScheme   = "http://schemas.ogf.org/occi/infrastructure/network#"
	InterfaceMixinScheme = "http://schemas.ogf.org/occi/infrastructure/networkinterface#"
)

// EntityKind is the root of the kind tree.
var EntityKind = &occi.Kind{
	Category: occi.Category{
		Scheme: CoreScheme,
		Term:   "entity",
		Title:  "entity",
		Attributes: []occi.Attribute{
			{Name: "occi.core.id", Type: occi.AttrString},
			{Name: "occi.core.title", Type: occi.AttrString, Mutable: true},
		},
	},
}

// ResourceKind is the base kind of every standalone resource.
var ResourceKind = &occi.Kind{
	Category: occi.Category{
		Scheme: CoreScheme,
		Term:   "resource",
		Title:  "resource",
		Attributes: []occi.Attribute{
			{Name: "occi.core.summary", Type: occi.AttrString, Mutable: true},
		},
	},
	Parent: EntityKind,
}

// LinkKind is the base kind of every link.
var LinkKind = &occi.Kind{
	Category: occi.Category{
		Scheme: CoreScheme,
		Term:   "link",
		Title:  "link",
		Attributes: []occi.Attribute{
			{Name: "occi.core.source", Type: occi.AttrString},
			{Name: "occi.core.target", Type: occi.AttrString, Mutable: true},
		},
	},
	Parent: EntityKind,
}

// OSTemplate is the base mixin every OS template depends on.
var OSTemplate = &occi.Mixin{
	Category: occi.Category{
		Scheme: InfraScheme,
		Term:   "os_tpl",
		Title:  "OCCI OS Template",
	},
}

// ResourceTemplate is the base mixin every resource template depends on.
var ResourceTemplate = &occi.Mixin{
	Category: occi.Category{
		Scheme: InfraScheme,
		Term:   "resource_tpl",
		Title:  "OCCI Resource Template",
	},
}

// Register adds the whole standard taxonomy to a registry in dependency
// order.
func Register(reg *registry.Registry) error {
	defs := []occi.Definition{
		EntityKind, ResourceKind, LinkKind,
		Start, Stop, Restart, Suspend,
		ComputeKind,
		Up, Down,
		NetworkKind, IPNetwork,
		Online, Offline, Backup, Snapshot, Resize,
		StorageKind,
		StorageLinkKind,
		NetworkInterfaceKind, IPNetworkInterface,
		OSTemplate, ResourceTemplate,
	}
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}
