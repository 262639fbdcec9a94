package infra

import "github.com/artpar/occigate/core/occi"

// Compute actions.
var (
	Start = &occi.Action{Category: occi.Category{
		Scheme: ComputeActionScheme, Term: "start", Title: "start compute instance",
	}}
	Stop = &occi.Action{Category: occi.Category{
		Scheme: ComputeActionScheme, Term: "stop", Title: "stop compute instance",
		Attributes: []occi.Attribute{
			{Name: "method", Type: occi.AttrString, Mutable: true},
		},
	}}
	Restart = &occi.Action{Category: occi.Category{
		Scheme: ComputeActionScheme, Term: "restart", Title: "restart compute instance",
		Attributes: []occi.Attribute{
			{Name: "method", Type: occi.AttrString, Mutable: true},
		},
	}}
	Suspend = &occi.Action{Category: occi.Category{
		Scheme: ComputeActionScheme, Term: "suspend", Title: "suspend compute instance",
		Attributes: []occi.Attribute{
			{Name: "method", Type: occi.AttrString, Mutable: true},
		},
	}}
)

// ComputeKind is the compute resource kind.
var ComputeKind = &occi.Kind{
	Category: occi.Category{
		Scheme:   InfraScheme,
		Term:     "compute",
		Title:    "compute resource",
		Location: "/compute/",
		Attributes: []occi.Attribute{
			{Name: "occi.compute.architecture", Type: occi.AttrString, Mutable: true},
			{Name: "occi.compute.cores", Type: occi.AttrNumber, Mutable: true},
			{Name: "occi.compute.hostname", Type: occi.AttrString, Mutable: true},
			{Name: "occi.compute.speed", Type: occi.AttrNumber, Mutable: true},
			{Name: "occi.compute.memory", Type: occi.AttrNumber, Mutable: true},
			{Name: "occi.compute.state", Type: occi.AttrString},
		},
	},
	Parent:  ResourceKind,
	Actions: []*occi.Action{Start, Stop, Restart, Suspend},
}
