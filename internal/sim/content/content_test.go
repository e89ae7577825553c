package content

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogIntegrity(t *testing.T) {
	c := Default()

	if len(c.Brands) == 0 || len(c.Locations) == 0 || len(c.Products) == 0 ||
		len(c.Staff) == 0 || len(c.Campaigns) == 0 || len(c.Platforms) == 0 {
		t.Fatal("default catalog has an empty table")
	}

	// Every brand menu entry resolves to a product definition.
	for _, b := range c.Brands {
		for _, pid := range b.Products {
			if c.Product(pid) == nil {
				t.Errorf("brand %s references unknown product %s", b.ID, pid)
			}
		}
	}

	for _, loc := range c.Locations {
		if loc.Rent <= 0 || loc.FloorArea <= 0 {
			t.Errorf("location %s has rent %v, area %v", loc.ID, loc.Rent, loc.FloorArea)
		}
		if loc.RingPopulations[3] <= 0 {
			t.Errorf("location %s has no delivery-ring population", loc.ID)
		}
		for _, comp := range loc.Competitors {
			if comp.Ring < 0 || comp.Ring > 2 {
				t.Errorf("location %s competitor %s sits in ring %d", loc.ID, comp.ID, comp.Ring)
			}
			if comp.Strength <= 0 || comp.Strength > 1 {
				t.Errorf("location %s competitor %s strength %v", loc.ID, comp.ID, comp.Strength)
			}
		}
	}

	for _, p := range c.Products {
		if p.RefPrice <= p.UnitCost {
			t.Errorf("product %s sells below cost: ref %v, cost %v", p.ID, p.RefPrice, p.UnitCost)
		}
		if p.Throughput <= 0 {
			t.Errorf("product %s throughput %v", p.ID, p.Throughput)
		}
	}

	for _, pf := range c.Platforms {
		if pf.Commission <= 0 || pf.Commission >= 1 {
			t.Errorf("platform %s commission %v", pf.ID, pf.Commission)
		}
		if pf.BaseRating < 1 || pf.BaseRating > 5 {
			t.Errorf("platform %s base rating %v", pf.ID, pf.BaseRating)
		}
	}
}

func TestCatalogLookups(t *testing.T) {
	c := Default()
	if c.Brand("noodle_nest") == nil || c.Brand("nope") != nil {
		t.Fatal("brand lookup broken")
	}
	if c.Location("old_town") == nil || c.Location("nope") != nil {
		t.Fatal("location lookup broken")
	}
	if c.StaffArchetype("line_cook") == nil || c.Campaign("flyer_blitz") == nil || c.Platform("porchdash") == nil {
		t.Fatal("table lookup broken")
	}
}

func TestLoadCatalogOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	raw := `
products:
  - id: dumplings
    name: Dumplings
    ref_price: 18
    unit_cost: 6
    throughput: 9
platforms:
  - id: zipmeal
    name: ZipMeal
    join_fee: 200
    weekly_fee: 60
    commission: 0.15
    packaging_cost: 0.8
    base_rating: 4.0
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := c.Product("dumplings")
	if p == nil || p.RefPrice != 18 || p.Throughput != 9 {
		t.Fatalf("loaded product = %+v", p)
	}
	pf := c.Platform("zipmeal")
	if pf == nil || pf.Commission != 0.15 {
		t.Fatalf("loaded platform = %+v", pf)
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("loading a missing file succeeded")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("products: {not: a list}"), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("loading malformed yaml succeeded")
	}
}
