// Package openstack holds the OpenStack-flavored value types of the
// model: template mixins built from images and flavors, the
// contextualization mixins, and the backend-to-protocol state mappings.
package openstack

import (
	"fmt"

	"github.com/artpar/occigate/core/infra"
	"github.com/artpar/occigate/core/occi"
)

// Schemes of the OpenStack extension categories.
const (
	OSTemplateScheme       = "http://schemas.openstack.org/template/os#"
	ResourceTemplateScheme = "http://schemas.openstack.org/template/resource#"
	ComputeScheme          = "http://schemas.openstack.org/compute/instance#"
)

// UserData is the contextualization mixin carrying instance user data.
var UserData = &occi.Mixin{
	Category: occi.Category{
		Scheme: ComputeScheme,
		Term:   "user_data",
		Title:  "Contextualization extension - user_data",
		Attributes: []occi.Attribute{
			{Name: "org.openstack.compute.user_data", Type: occi.AttrString, Mutable: true},
		},
	},
	Applies: []*occi.Kind{infra.ComputeKind},
}

// PublicKey is the contextualization mixin carrying an SSH public key.
var PublicKey = &occi.Mixin{
	Category: occi.Category{
		Scheme: ComputeScheme,
		Term:   "public_key",
		Title:  "Contextualization extension - public_key",
		Attributes: []occi.Attribute{
			{Name: "org.openstack.credentials.publickey.name", Type: occi.AttrString, Mutable: true},
			{Name: "org.openstack.credentials.publickey.data", Type: occi.AttrString, Mutable: true},
		},
	},
	Applies: []*occi.Kind{infra.ComputeKind},
}

// OSTemplateFamily and ResourceTemplateFamily stand in for "any concrete
// template mixin" in validation schemes, which match mixins by scheme
// rather than by exact term.
var (
	OSTemplateFamily = &occi.Mixin{
		Category: occi.Category{Scheme: OSTemplateScheme, Term: "os_tpl", Title: "OS template"},
		Depends:  []*occi.Mixin{infra.OSTemplate},
	}
	ResourceTemplateFamily = &occi.Mixin{
		Category: occi.Category{Scheme: ResourceTemplateScheme, Term: "resource_tpl", Title: "Resource template"},
		Depends:  []*occi.Mixin{infra.ResourceTemplate},
	}
)

// OSTemplate builds the mixin for one backend image. Its scheme is the
// OS template scheme, so validation schemes requiring an OS template
// match any concrete image mixin.
func OSTemplate(id, name string) *occi.Mixin {
	return &occi.Mixin{
		Category: occi.Category{
			Scheme:   OSTemplateScheme,
			Term:     id,
			Title:    name,
			Location: "/os_tpl/" + id,
		},
		Depends: []*occi.Mixin{infra.OSTemplate},
	}
}

// ResourceTemplate builds the mixin for one backend flavor, exposing its
// sizing as the mixin title.
func ResourceTemplate(id, name string, vcpus, ram, disk int) *occi.Mixin {
	return &occi.Mixin{
		Category: occi.Category{
			Scheme:   ResourceTemplateScheme,
			Term:     id,
			Title:    fmt.Sprintf("Flavor: %s (%d vcpus, %d MB ram, %d GB disk)", name, vcpus, ram, disk),
			Location: "/resource_tpl/" + id,
		},
		Depends: []*occi.Mixin{infra.ResourceTemplate},
	}
}

// VMState maps a backend server status to the protocol compute state.
func VMState(status string) string {
	switch status {
	case "ACTIVE":
		return "active"
	case "SUSPENDED":
		return "suspended"
	default:
		return "inactive"
	}
}

// VolumeState maps a backend volume status to the protocol storage state.
func VolumeState(status string) string {
	switch status {
	case "available", "in-use":
		return "online"
	default:
		return "offline"
	}
}
