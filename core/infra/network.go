package infra

import "github.com/artpar/occigate/core/occi"

// Network actions.
var (
	Up = &occi.Action{Category: occi.Category{
		Scheme: NetworkActionScheme, Term: "up", Title: "set network up",
	}}
	Down = &occi.Action{Category: occi.Category{
		Scheme: NetworkActionScheme, Term: "down", Title: "set network down",
	}}
)

// NetworkKind is the network resource kind.
var NetworkKind = &occi.Kind{
	Category: occi.Category{
		Scheme:   InfraScheme,
		Term:     "network",
		Title:    "network resource",
		Location: "/network/",
		Attributes: []occi.Attribute{
			{Name: "occi.network.vlan", Type: occi.AttrNumber, Mutable: true},
			{Name: "occi.network.label", Type: occi.AttrString, Mutable: true},
			{Name: "occi.network.state", Type: occi.AttrString},
		},
	},
	Parent:  ResourceKind,
	Actions: []*occi.Action{Up, Down},
}

// IPNetwork extends a network with IP addressing.
var IPNetwork = &occi.Mixin{
	Category: occi.Category{
		Scheme: NetworkMixinScheme,
		Term:   "ipnetwork",
		Title:  "IP network mixin",
		Attributes: []occi.Attribute{
			{Name: "occi.network.address", Type: occi.AttrString, Mutable: true},
			{Name: "occi.network.gateway", Type: occi.AttrString, Mutable: true},
			{Name: "occi.network.allocation", Type: occi.AttrString, Mutable: true},
		},
	},
	Applies: []*occi.Kind{NetworkKind},
}
