package infra

import "github.com/artpar/occigate/core/occi"

// StorageLinkKind connects a compute resource to a storage resource.
var StorageLinkKind = &occi.Kind{
	Category: occi.Category{
		Scheme:   InfraScheme,
		Term:     "storagelink",
		Title:    "storage link resource",
		Location: "/storagelink/",
		Attributes: []occi.Attribute{
			{Name: "occi.storagelink.deviceid", Type: occi.AttrString, Mutable: true},
			{Name: "occi.storagelink.mountpoint", Type: occi.AttrString, Mutable: true},
			{Name: "occi.storagelink.state", Type: occi.AttrString},
		},
	},
	Parent: LinkKind,
}

// NetworkInterfaceKind connects a compute resource to a network.
var NetworkInterfaceKind = &occi.Kind{
	Category: occi.Category{
		Scheme:   InfraScheme,
		Term:     "networkinterface",
		Title:    "network interface resource",
		Location: "/networkinterface/",
		Attributes: []occi.Attribute{
			{Name: "occi.networkinterface.interface", Type: occi.AttrString},
			{Name: "occi.networkinterface.mac", Type: occi.AttrString, Mutable: true},
			{Name: "occi.networkinterface.state", Type: occi.AttrString},
		},
	},
	Parent: LinkKind,
}

// IPNetworkInterface extends a network interface with IP addressing.
var IPNetworkInterface = &occi.Mixin{
	Category: occi.Category{
		Scheme: InterfaceMixinScheme,
		Term:   "ipnetworkinterface",
		Title:  "IP network interface mixin",
		Attributes: []occi.Attribute{
			{Name: "occi.networkinterface.address", Type: occi.AttrString, Mutable: true},
			{Name: "occi.networkinterface.gateway", Type: occi.AttrString, Mutable: true},
			{Name: "occi.networkinterface.allocation", Type: occi.AttrString, Mutable: true},
		},
	},
	Applies: []*occi.Kind{NetworkInterfaceKind},
}
