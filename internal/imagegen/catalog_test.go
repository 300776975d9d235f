package imagegen

import (
	"testing"

	"visualizer/internal/domain"
)

func TestCatalogLookupsFallBack(t *testing.T) {
	if got := DoorGeometry("unknown"); got != doorGeometry[domain.DoorShaker] {
		t.Fatalf("door fallback = %q", got)
	}
	if got := HardwareGeometry(""); got != hardwareGeometry[domain.HardwareBar] {
		t.Fatalf("hardware fallback = %q", got)
	}
	if got := HardwareFinishText("platinum"); got != hardwareFinish[domain.FinishNickel] {
		t.Fatalf("finish fallback = %q", got)
	}
	if got := DoorGeometry(domain.DoorSlab); got != doorGeometry[domain.DoorSlab] {
		t.Fatalf("slab lookup = %q", got)
	}
}

func TestCatalogOptionsCoverEveryEntry(t *testing.T) {
	opts := CatalogOptions()
	if len(opts.DoorStyles) != len(doorGeometry) {
		t.Fatalf("door styles = %d, want %d", len(opts.DoorStyles), len(doorGeometry))
	}
	if len(opts.HardwareStyles) != len(hardwareGeometry) {
		t.Fatalf("hardware styles = %d, want %d", len(opts.HardwareStyles), len(hardwareGeometry))
	}
	if len(opts.HardwareFinishes) != len(hardwareFinish) {
		t.Fatalf("finishes = %d, want %d", len(opts.HardwareFinishes), len(hardwareFinish))
	}
	for _, opt := range opts.DoorStyles {
		if _, ok := doorGeometry[domain.DoorStyle(opt.Key)]; !ok {
			t.Fatalf("door option %q not in catalog", opt.Key)
		}
	}
	names := map[string]string{}
	for _, opt := range opts.HardwareFinishes {
		names[opt.Key] = opt.Name
	}
	if names["rose_gold"] != "Rose Gold" {
		t.Fatalf("rose_gold name = %q", names["rose_gold"])
	}
	if names["satinnickel"] != "Satin Nickel" {
		t.Fatalf("satinnickel name = %q", names["satinnickel"])
	}
	if opts.DoorStyles[3].Name != "Fusion Shaker" {
		t.Fatalf("fusion-shaker name = %q", opts.DoorStyles[3].Name)
	}
}
