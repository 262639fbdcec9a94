package bootstrap

import (
	"github.com/artpar/occigate/core/infra"
	"github.com/artpar/occigate/core/registry"
	"github.com/artpar/occigate/domain/openstack"
)

// NewTaxonomy builds the category registry the server advertises: the
// core and infrastructure categories plus the OpenStack extension
// mixins. Concrete template mixins are per-tenant and stay out of the
// static taxonomy.
func NewTaxonomy() *registry.Registry {
	reg := registry.New()
	if err := infra.Register(reg); err != nil {
		panic(err)
	}
	reg.MustRegister(
		openstack.OSTemplateFamily,
		openstack.ResourceTemplateFamily,
		openstack.UserData,
		openstack.PublicKey,
	)
	return reg
}
