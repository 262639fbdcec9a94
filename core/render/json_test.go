package render_test

import (
	"encoding/json"
	"testing"

	"github.com/artpar/occigate/core/infra"
	"github.com/artpar/occigate/core/occi"
	"github.com/artpar/occigate/core/render"
	"github.com/artpar/occigate/domain/occierr"
)

func TestJSONRenderer_ContentTypes(t *testing.T) {
	if got := (&render.JSONRenderer{}).ContentType(); got != "application/occi+json" {
		t.Errorf("ContentType = %q", got)
	}
	if got := (&render.JSONRenderer{Plain: true}).ContentType(); got != "application/json" {
		t.Errorf("ContentType = %q", got)
	}
}

func TestJSONRenderer_Resource(t *testing.T) {
	res := computeFixture(t)
	link := occi.NewLink("l-1", infra.StorageLinkKind, nil, "vol-1", infra.StorageKind)
	res.AddLink(link)

	r := &render.JSONRenderer{}
	result, err := r.Render(res)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var obj struct {
		ID         string         `json:"id"`
		Title      string         `json:"title"`
		Kind       string         `json:"kind"`
		Attributes map[string]any `json:"attributes"`
		Actions    []string       `json:"actions"`
		Links      []struct {
			ID     string `json:"id"`
			Target string `json:"target"`
			Rel    string `json:"rel"`
		} `json:"links"`
		Location string `json:"location"`
	}
	if err := json.Unmarshal(result.Body, &obj); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, result.Body)
	}

	if obj.ID != "vm-1" || obj.Title != "my vm" {
		t.Errorf("id/title = %q/%q", obj.ID, obj.Title)
	}
	if obj.Kind != infra.ComputeKind.TypeID() {
		t.Errorf("kind = %q", obj.Kind)
	}
	if obj.Attributes["occi.compute.cores"] != 4.0 {
		t.Errorf("cores = %v", obj.Attributes["occi.compute.cores"])
	}
	if len(obj.Actions) != 4 {
		t.Errorf("len(actions) = %d, want the four compute actions", len(obj.Actions))
	}
	if len(obj.Links) != 1 || obj.Links[0].Target != "/storage/vol-1" {
		t.Errorf("links = %+v", obj.Links)
	}
	if obj.Location != "/compute/vm-1" {
		t.Errorf("location = %q", obj.Location)
	}
}

func TestJSONRenderer_Definition(t *testing.T) {
	r := &render.JSONRenderer{}
	result, err := r.Render(occi.Definition(infra.StorageKind))
	if err != nil {
		t.Fatal(err)
	}

	var obj struct {
		Term       string `json:"term"`
		Scheme     string `json:"scheme"`
		Class      string `json:"class"`
		Parent     string `json:"parent"`
		Attributes map[string]struct {
			Type     string `json:"type"`
			Required bool   `json:"required"`
		} `json:"attributes"`
	}
	if err := json.Unmarshal(result.Body, &obj); err != nil {
		t.Fatal(err)
	}
	if obj.Term != "storage" || obj.Class != "kind" {
		t.Errorf("term/class = %q/%q", obj.Term, obj.Class)
	}
	if obj.Parent != infra.ResourceKind.TypeID() {
		t.Errorf("parent = %q", obj.Parent)
	}
	size := obj.Attributes["occi.storage.size"]
	if size.Type != "number" || !size.Required {
		t.Errorf("occi.storage.size = %+v", size)
	}
}

func TestJSONRenderer_Collection(t *testing.T) {
	col := &occi.Collection{
		Kinds:  []*occi.Kind{infra.ComputeKind},
		Mixins: []*occi.Mixin{infra.IPNetwork},
	}
	r := &render.JSONRenderer{}
	result, err := r.Render(col)
	if err != nil {
		t.Fatal(err)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(result.Body, &obj); err != nil {
		t.Fatal(err)
	}
	if _, ok := obj["kinds"]; !ok {
		t.Error("collection object missing kinds")
	}
	if _, ok := obj["mixins"]; !ok {
		t.Error("collection object missing mixins")
	}
	if _, ok := obj["resources"]; ok {
		t.Error("empty resources group must be omitted")
	}
}

func TestJSONRenderer_RenderError(t *testing.T) {
	r := &render.JSONRenderer{}
	result := r.RenderError(occierr.InvalidAttribute("no.such"))

	var obj struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(result.Body, &obj); err != nil {
		t.Fatal(err)
	}
	if obj.Error.Code != occierr.CodeInvalidAttribute {
		t.Errorf("code = %q", obj.Error.Code)
	}
	if obj.Error.Message == "" {
		t.Error("message empty")
	}
}

func TestRegistry_Negotiate(t *testing.T) {
	reg := render.NewRegistry()

	tests := []struct {
		accept  string
		want    string
		wantErr bool
	}{
		{"", "text/plain", false},
		{"*/*", "text/plain", false},
		{"text/occi", "text/occi", false},
		{"application/occi+json", "application/occi+json", false},
		{"application/json", "application/json", false},
		{"text/html, application/occi+json", "application/occi+json", false},
		{"text/*", "text/plain", false},
		{"text/occi; q=0.8", "text/occi", false},
		{"application/xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			r, err := reg.Negotiate(tt.accept)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Negotiate(%q) error = %v, wantErr %v", tt.accept, err, tt.wantErr)
			}
			if tt.wantErr {
				if occierr.Status(err) != 406 {
					t.Errorf("status = %d, want 406", occierr.Status(err))
				}
				return
			}
			if r.ContentType() != tt.want {
				t.Errorf("Negotiate(%q) = %q, want %q", tt.accept, r.ContentType(), tt.want)
			}
		})
	}
}
