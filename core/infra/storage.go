package infra

import "github.com/artpar/occigate/core/occi"

// Storage actions.
var (
	Online = &occi.Action{Category: occi.Category{
		Scheme: StorageActionScheme, Term: "online", Title: "set storage online",
	}}
	Offline = &occi.Action{Category: occi.Category{
		Scheme: StorageActionScheme, Term: "offline", Title: "set storage offline",
	}}
	Backup = &occi.Action{Category: occi.Category{
		Scheme: StorageActionScheme, Term: "backup", Title: "backup storage",
	}}
	Snapshot = &occi.Action{Category: occi.Category{
		Scheme: StorageActionScheme, Term: "snapshot", Title: "snapshot storage",
	}}
	Resize = &occi.Action{Category: occi.Category{
		Scheme: StorageActionScheme, Term: "resize", Title: "resize storage",
		Attributes: []occi.Attribute{
			{Name: "size", Type: occi.AttrNumber, Mutable: true, Required: true},
		},
	}}
)

// StorageKind is the storage resource kind.
var StorageKind = &occi.Kind{
	Category: occi.Category{
		Scheme:   InfraScheme,
		Term:     "storage",
		Title:    "storage resource",
		Location: "/storage/",
		Attributes: []occi.Attribute{
			{Name: "occi.storage.size", Type: occi.AttrNumber, Mutable: true, Required: true},
			{Name: "occi.storage.state", Type: occi.AttrString},
		},
	},
	Parent:  ResourceKind,
	Actions: []*occi.Action{Online, Offline, Backup, Snapshot, Resize},
}
