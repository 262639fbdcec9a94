package occi_test

import (
	"testing"

	"github.com/artpar/occigate/core/occi"
)

// Minimal kind tree for resource tests.
func testKinds() (entity, compute, storage, storageLink *occi.Kind) {
	entity = &occi.Kind{Category: occi.Category{
		Scheme: "http://schemas.ogf.org/occi/core#",
		Term:   "entity",
		Attributes: []occi.Attribute{
			{Name: "occi.core.id", Required: true},
			{Name: "occi.core.title", Mutable: true},
		},
	}}
	compute = &occi.Kind{
		Category: occi.Category{
			Scheme:   "http://schemas.ogf.org/occi/infrastructure#",
			Term:     "compute",
			Location: "/compute/",
			Attributes: []occi.Attribute{
				{Name: "occi.compute.cores", Type: occi.AttrNumber, Mutable: true},
				{Name: "occi.compute.state"},
			},
		},
		Parent: entity,
		Actions: []*occi.Action{
			{Category: occi.Category{Scheme: "http://schemas.ogf.org/occi/infrastructure/compute/action#", Term: "start"}},
		},
	}
	storage = &occi.Kind{
		Category: occi.Category{
			Scheme:   "http://schemas.ogf.org/occi/infrastructure#",
			Term:     "storage",
			Location: "/storage/",
		},
		Parent: entity,
	}
	storageLink = &occi.Kind{
		Category: occi.Category{
			Scheme:   "http://schemas.ogf.org/occi/infrastructure#",
			Term:     "storagelink",
			Location: "/storagelink/",
			Attributes: []occi.Attribute{
				{Name: "occi.core.source"},
				{Name: "occi.core.target"},
				{Name: "occi.storagelink.deviceid", Mutable: true},
			},
		},
		Parent: entity,
	}
	return
}

func TestNewResource_PopulatesIdentityAttributes(t *testing.T) {
	_, compute, _, _ := testKinds()
	res := occi.NewResource("vm-1", "my vm", compute, nil)

	id, ok := res.Get("occi.core.id")
	if !ok || id.Value != "vm-1" {
		t.Errorf("occi.core.id = %v, want vm-1", id.Value)
	}
	title, ok := res.Get("occi.core.title")
	if !ok || title.Value != "my vm" {
		t.Errorf("occi.core.title = %v, want my vm", title.Value)
	}
}

func TestResource_Set(t *testing.T) {
	_, compute, _, _ := testKinds()
	res := occi.NewResource("vm-1", "my vm", compute, nil)

	if err := res.Set("occi.compute.cores", "4"); err != nil {
		t.Fatalf("Set(cores) error = %v", err)
	}
	v, _ := res.Get("occi.compute.cores")
	if v.Value != 4.0 {
		t.Errorf("cores = %v (%T), want 4.0", v.Value, v.Value)
	}

	if err := res.Set("occi.compute.cores", "four"); err == nil {
		t.Error("Set accepted a non-numeric value for a number attribute")
	}
	if err := res.Set("not.declared", "x"); err == nil {
		t.Error("Set accepted an undeclared attribute")
	}
}

func TestResource_AttributeNames_Order(t *testing.T) {
	_, compute, _, _ := testKinds()
	res := occi.NewResource("vm-1", "my vm", compute, nil)
	// Insert out of declaration order; names must come back in it.
	if err := res.Set("occi.compute.state", "active"); err != nil {
		t.Fatal(err)
	}
	if err := res.Set("occi.compute.cores", 2.0); err != nil {
		t.Fatal(err)
	}

	want := []string{"occi.core.id", "occi.core.title", "occi.compute.cores", "occi.compute.state"}
	got := res.AttributeNames()
	if len(got) != len(want) {
		t.Fatalf("AttributeNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AttributeNames()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestResource_Location(t *testing.T) {
	_, compute, _, _ := testKinds()
	res := occi.NewResource("vm-1", "", compute, nil)
	if got := res.Location(); got != "/compute/vm-1" {
		t.Errorf("Location() = %q, want /compute/vm-1", got)
	}
}

func TestResource_AddLink_StampsSource(t *testing.T) {
	_, compute, storage, storageLink := testKinds()
	res := occi.NewResource("vm-1", "", compute, nil)
	link := occi.NewLink("l-1", storageLink, nil, "vol-1", storage)

	res.AddLink(link)

	if link.SourceID != "vm-1" {
		t.Errorf("SourceID = %q, want vm-1", link.SourceID)
	}
	src, ok := link.Get("occi.core.source")
	if !ok || src.Value != "/compute/vm-1" {
		t.Errorf("occi.core.source = %v, want /compute/vm-1", src.Value)
	}
	tgt, ok := link.Get("occi.core.target")
	if !ok || tgt.Value != "/storage/vol-1" {
		t.Errorf("occi.core.target = %v, want /storage/vol-1", tgt.Value)
	}
	if links := res.Links(); len(links) != 1 || links[0] != link {
		t.Errorf("Links() = %v, want the attached link", links)
	}
}

func TestResource_Actions_Deduplicated(t *testing.T) {
	_, compute, _, _ := testKinds()
	// A mixin repeating the kind's action must not duplicate it.
	m := &occi.Mixin{
		Category: occi.Category{Scheme: "http://example.org/x#", Term: "x"},
		Actions:  []*occi.Action{compute.Actions[0]},
	}
	res := occi.NewResource("vm-1", "", compute, []*occi.Mixin{m})

	if got := res.Actions(); len(got) != 1 {
		t.Errorf("Actions() has %d entries, want 1", len(got))
	}
}

func TestLink_TargetLocation(t *testing.T) {
	_, _, storage, storageLink := testKinds()
	link := occi.NewLink("l-1", storageLink, nil, "vol-9", storage)
	if got := link.TargetLocation(); got != "/storage/vol-9" {
		t.Errorf("TargetLocation() = %q, want /storage/vol-9", got)
	}
	if got := link.Location(); got != "/storagelink/l-1" {
		t.Errorf("Location() = %q, want /storagelink/l-1", got)
	}
}

func TestCollection_Definitions_Order(t *testing.T) {
	_, compute, storage, _ := testKinds()
	m := &occi.Mixin{Category: occi.Category{Scheme: "http://example.org/x#", Term: "x"}}
	a := &occi.Action{Category: occi.Category{Scheme: "http://example.org/a#", Term: "go"}}

	col := &occi.Collection{
		Kinds:   []*occi.Kind{compute, storage},
		Mixins:  []*occi.Mixin{m},
		Actions: []*occi.Action{a},
	}
	defs := col.Definitions()
	if len(defs) != 4 {
		t.Fatalf("len(Definitions()) = %d, want 4", len(defs))
	}
	if defs[0] != occi.Definition(compute) || defs[3] != occi.Definition(a) {
		t.Error("Definitions() lost kinds-mixins-actions order")
	}
	if col.Empty() {
		t.Error("Empty() = true for a populated collection")
	}
	if !(&occi.Collection{}).Empty() {
		t.Error("Empty() = false for an empty collection")
	}
}
