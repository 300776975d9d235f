package domain

// DoorStyle selects the cabinet door geometry drawn by the edit model.
type DoorStyle string

const (
	DoorSlab         DoorStyle = "slab"
	DoorShaker       DoorStyle = "shaker"
	DoorShakerSlide  DoorStyle = "shaker-slide"
	DoorFusionShaker DoorStyle = "fusion-shaker"
	DoorFusionSlide  DoorStyle = "fusion-slide"
)

// HardwareStyle selects the handle or pull geometry.
type HardwareStyle string

const (
	HardwareLoft    HardwareStyle = "loft"
	HardwareBar     HardwareStyle = "bar"
	HardwareArch    HardwareStyle = "arch"
	HardwareArtisan HardwareStyle = "artisan"
	HardwareCottage HardwareStyle = "cottage"
	HardwareSquare  HardwareStyle = "square"
)

// HardwareFinish selects the metal finish applied to the new hardware.
type HardwareFinish string

const (
	FinishRoseGold    HardwareFinish = "rose_gold"
	FinishChrome      HardwareFinish = "chrome"
	FinishBlack       HardwareFinish = "black"
	FinishNickel      HardwareFinish = "nickel"
	FinishSatinNickel HardwareFinish = "satinnickel"
	FinishGold        HardwareFinish = "gold"
	FinishBronze      HardwareFinish = "bronze"
)

// Lighting is the dominant light temperature observed in a photo.
type Lighting string

const (
	LightingWarm    Lighting = "warm"
	LightingCool    Lighting = "cool"
	LightingNeutral Lighting = "neutral"
)

// Normalize maps unrecognized values to neutral.
func (l Lighting) Normalize() Lighting {
	switch l {
	case LightingWarm, LightingCool:
		return l
	default:
		return LightingNeutral
	}
}

// StyleSelection is the set of cosmetic options chosen by the customer.
type StyleSelection struct {
	DoorStyle      DoorStyle      `json:"door_style"`
	HardwareStyle  HardwareStyle  `json:"hardware_style"`
	HardwareFinish HardwareFinish `json:"hardware_finish"`
	ColorHex       string         `json:"color_hex"`
	ColorName      string         `json:"color_name"`
}

// PhotoFeatures are the facts derived from one kitchen photo.
type PhotoFeatures struct {
	Description       string   `json:"image_description"`
	DrawersMissing    bool     `json:"drawers_missing"`
	IsAngledPhoto     bool     `json:"is_angled_photo"`
	HasArchedDoors    bool     `json:"has_arched_doors"`
	Lighting          Lighting `json:"lighting"`
	NeedsCleanup      bool     `json:"needs_cleanup"`
	WarpedPerspective bool     `json:"warped_perspective"`
}

// DefaultPhotoDescription is used whenever no vision analysis is available.
const DefaultPhotoDescription = "Kitchen with cabinets, countertops, and appliances"

// DefaultPhotoFeatures returns the fixed feature set used when analysis is
// skipped or unavailable.
func DefaultPhotoFeatures() PhotoFeatures {
	return PhotoFeatures{
		Description: DefaultPhotoDescription,
		Lighting:    LightingNeutral,
	}
}

// Lead carries the free-form contact fields submitted with a visualization.
// They are echoed back and forwarded to lead alerts without validation.
type Lead struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// IsZero reports whether no contact detail was supplied.
func (l Lead) IsZero() bool {
	return l.Name == "" && l.Phone == ""
}
