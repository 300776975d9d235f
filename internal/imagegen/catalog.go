package imagegen

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"visualizer/internal/domain"
)

var doorGeometry = map[domain.DoorStyle]string{
	domain.DoorSlab:         "Remove all interior lines and make each door and drawer a completely flat smooth rectangle with no panels, grooves, or decorative elements.",
	domain.DoorShaker:       "Erase all existing lines and draw a new recessed rectangular center panel with even borders on each door. Add a shorter horizontal recessed panel on each drawer.",
	domain.DoorShakerSlide:  "Erase all existing lines and draw a recessed center panel with clean horizontal lines. Add matching recessed drawer geometry with subtle horizontal banding.",
	domain.DoorFusionShaker: "Erase all existing lines and draw a recessed center panel with a thin modern frame around it. Add matching recessed geometry to all drawers with crisp edges.",
	domain.DoorFusionSlide:  "Erase existing panel lines. Draw a clean rectangular recessed center panel with crisp edges. Add matching modern recessed drawer geometry with a subtle horizontal band.",
}

var hardwareGeometry = map[domain.HardwareStyle]string{
	domain.HardwareLoft:    "Add a straight bar pull with squared posts, placed vertically on doors and horizontally on drawers.",
	domain.HardwareBar:     "Add a cylindrical bar handle with rounded posts, positioned vertically on doors and horizontally on drawers.",
	domain.HardwareArch:    "Add a soft curved arch handle with small circular posts.",
	domain.HardwareArtisan: "Add an artisan-style handle with decorative detailing and curved profile.",
	domain.HardwareCottage: "Add a cottage-style knob or pull with classic rounded design.",
	domain.HardwareSquare:  "Add a square modern pull with clean geometric lines.",
}

var hardwareFinish = map[domain.HardwareFinish]string{
	domain.FinishRoseGold:    "Apply a warm rose gold metallic finish with subtle pink undertones.",
	domain.FinishChrome:      "Apply a polished chrome reflective metallic finish.",
	domain.FinishBlack:       "Apply a matte black non-reflective finish.",
	domain.FinishNickel:      "Apply a satin nickel brushed finish.",
	domain.FinishSatinNickel: "Apply a satin nickel brushed finish with soft sheen.",
	domain.FinishGold:        "Apply a polished gold metallic finish.",
	domain.FinishBronze:      "Apply an oil-rubbed bronze finish with warm undertones.",
}

// Fallback keys used for unrecognized options.
const (
	DefaultDoorStyle      = domain.DoorShaker
	DefaultHardwareStyle  = domain.HardwareBar
	DefaultHardwareFinish = domain.FinishNickel
)

// DoorGeometry returns the door editing instruction, falling back to shaker.
func DoorGeometry(style domain.DoorStyle) string {
	if text, ok := doorGeometry[style]; ok {
		return text
	}
	return doorGeometry[DefaultDoorStyle]
}

// HardwareGeometry returns the handle instruction, falling back to bar.
func HardwareGeometry(style domain.HardwareStyle) string {
	if text, ok := hardwareGeometry[style]; ok {
		return text
	}
	return hardwareGeometry[DefaultHardwareStyle]
}

// HardwareFinishText returns the finish instruction, falling back to nickel.
func HardwareFinishText(finish domain.HardwareFinish) string {
	if text, ok := hardwareFinish[finish]; ok {
		return text
	}
	return hardwareFinish[DefaultHardwareFinish]
}

// NamedOption is one selectable catalog entry.
type NamedOption struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Options lists the catalog enumerations in display order.
type Options struct {
	DoorStyles       []NamedOption `json:"door_styles"`
	HardwareStyles   []NamedOption `json:"hardware_styles"`
	HardwareFinishes []NamedOption `json:"hardware_finishes"`
}

// CatalogOptions returns every option the catalog knows about.
func CatalogOptions() Options {
	return Options{
		DoorStyles: namedOptions([]domain.DoorStyle{
			domain.DoorSlab, domain.DoorShaker, domain.DoorShakerSlide, domain.DoorFusionShaker, domain.DoorFusionSlide,
		}),
		HardwareStyles: namedOptions([]domain.HardwareStyle{
			domain.HardwareLoft, domain.HardwareBar, domain.HardwareArch, domain.HardwareArtisan, domain.HardwareCottage, domain.HardwareSquare,
		}),
		HardwareFinishes: namedOptions([]domain.HardwareFinish{
			domain.FinishRoseGold, domain.FinishChrome, domain.FinishBlack, domain.FinishNickel, domain.FinishSatinNickel, domain.FinishGold, domain.FinishBronze,
		}),
	}
}

var displayNameOverrides = map[string]string{
	"satinnickel": "Satin Nickel",
}

func namedOptions[T ~string](keys []T) []NamedOption {
	c := cases.Title(language.English)
	out := make([]NamedOption, 0, len(keys))
	for _, key := range keys {
		k := string(key)
		name, ok := displayNameOverrides[k]
		if !ok {
			name = c.String(strings.NewReplacer("-", " ", "_", " ").Replace(k))
		}
		out = append(out, NamedOption{Key: k, Name: name})
	}
	return out
}
