package pricing

import "strings"

// Category groups catalog entries for validation. It plays no part in the
// pricing arithmetic.
type Category string

const (
	CategorySize      Category = "size"
	CategoryFeature   Category = "feature"
	CategoryAddOn     Category = "addon"
	CategoryInsurance Category = "insurance"
	CategoryLogo      Category = "logo"
)

// ParseCategory normalises a category label.
func ParseCategory(value string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	switch c {
	case CategorySize, CategoryFeature, CategoryAddOn, CategoryInsurance, CategoryLogo:
		return c, true
	}
	return "", false
}

// ContainerSize is one of the container lengths sold on the storefronts.
type ContainerSize string

const (
	Size20ft   ContainerSize = "20ft"
	Size20ftHC ContainerSize = "20ft-hc"
	Size40ft   ContainerSize = "40ft"
	Size40ftHC ContainerSize = "40ft-hc"
	Size45ftHC ContainerSize = "45ft-hc"
	Size53ftHC ContainerSize = "53ft-hc"
)

var containerSizes = []ContainerSize{Size20ft, Size20ftHC, Size40ft, Size40ftHC, Size45ftHC, Size53ftHC}

// ContainerSizes lists the supported sizes in display order.
func ContainerSizes() []ContainerSize {
	out := make([]ContainerSize, len(containerSizes))
	copy(out, containerSizes)
	return out
}

// ParseContainerSize matches value against the size enumeration.
func ParseContainerSize(value string) (ContainerSize, bool) {
	candidate := ContainerSize(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range containerSizes {
		if s == candidate {
			return s, true
		}
	}
	return "", false
}

// ItemCode returns the catalog code carrying the size's base price.
func (s ContainerSize) ItemCode() string {
	return "SIZE-" + strings.ToUpper(string(s))
}

// Feature is the door/top configuration of a container.
type Feature string

const (
	FeatureStandard      Feature = "standard"
	FeatureDoubleDoor    Feature = "double-door"
	FeatureMultiSideDoor Feature = "multi-side-door"
	FeatureFullOpenSide  Feature = "full-open-side"
	FeatureOpenTop       Feature = "open-top"
)

var features = []Feature{FeatureStandard, FeatureDoubleDoor, FeatureMultiSideDoor, FeatureFullOpenSide, FeatureOpenTop}

var featureCodes = map[Feature]string{
	FeatureDoubleDoor:    "DOOR-DOUBLE",
	FeatureMultiSideDoor: "DOOR-MULTI-SIDE",
	FeatureFullOpenSide:  "DOOR-FULL-OPEN-SIDE",
	FeatureOpenTop:       "DOOR-OPEN-TOP",
}

// Features lists the supported door/top configurations, neutral first.
func Features() []Feature {
	out := make([]Feature, len(features))
	copy(out, features)
	return out
}

// ParseFeature matches value against the feature enumeration. The storefront
// labels "optional" and an empty selection both mean the standard doors.
func ParseFeature(value string) (Feature, bool) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "", "optional", "standard":
		return FeatureStandard, true
	default:
		f := Feature(v)
		if _, ok := featureCodes[f]; ok {
			return f, true
		}
	}
	return "", false
}

// Neutral reports whether the feature is free and omitted from invoices.
func (f Feature) Neutral() bool { return f == FeatureStandard || f == "" }

// ItemCode returns the catalog code for the feature, empty for the neutral one.
func (f Feature) ItemCode() string { return featureCodes[f] }

// AddOn is an independently toggleable option with a flat price.
type AddOn string

const (
	AddOnLockingBox     AddOn = "lockingBox"
	AddOnForkLiftPocket AddOn = "forkLiftPocket"
	AddOnEasyOpenDoor   AddOn = "easyOpenDoor"
	AddOnVentilation    AddOn = "ventilation"
	AddOnLogo           AddOn = "logo"
)

// addOnOrder is the fixed invoice order of the non-logo add-ons. Logo is
// priced after insurance on purpose to match the storefront display order.
var addOnOrder = []AddOn{AddOnLockingBox, AddOnForkLiftPocket, AddOnEasyOpenDoor, AddOnVentilation}

var addOnCodes = map[AddOn]string{
	AddOnLockingBox:     "LOCKING-BOX",
	AddOnForkLiftPocket: "FORKLIFT-POCKET",
	AddOnEasyOpenDoor:   "EASY-OPEN-DOOR",
	AddOnVentilation:    "VENTILATION",
	AddOnLogo:           "LOGO",
}

// AddOnOrder returns the add-ons (logo excluded) in invoice order.
func AddOnOrder() []AddOn {
	out := make([]AddOn, len(addOnOrder))
	copy(out, addOnOrder)
	return out
}

// ItemCode returns the catalog code for the add-on.
func (a AddOn) ItemCode() string { return addOnCodes[a] }

// Category returns the catalog category an add-on is priced under.
func (a AddOn) Category() Category {
	if a == AddOnLogo {
		return CategoryLogo
	}
	return CategoryAddOn
}

// AddOns records which add-ons were selected.
type AddOns struct {
	LockingBox     bool `json:"lockingBox"`
	ForkLiftPocket bool `json:"forkLiftPocket"`
	EasyOpenDoor   bool `json:"easyOpenDoor"`
	Ventilation    bool `json:"ventilation"`
	Logo           bool `json:"logo"`
}

// Has reports whether the given add-on is selected.
func (a AddOns) Has(addOn AddOn) bool {
	switch addOn {
	case AddOnLockingBox:
		return a.LockingBox
	case AddOnForkLiftPocket:
		return a.ForkLiftPocket
	case AddOnEasyOpenDoor:
		return a.EasyOpenDoor
	case AddOnVentilation:
		return a.Ventilation
	case AddOnLogo:
		return a.Logo
	}
	return false
}

// With returns a copy with the add-on switched on.
func (a AddOns) With(addOn AddOn) AddOns {
	switch addOn {
	case AddOnLockingBox:
		a.LockingBox = true
	case AddOnForkLiftPocket:
		a.ForkLiftPocket = true
	case AddOnEasyOpenDoor:
		a.EasyOpenDoor = true
	case AddOnVentilation:
		a.Ventilation = true
	case AddOnLogo:
		a.Logo = true
	}
	return a
}

// InsuranceTier is the cover purchased with the container.
type InsuranceTier string

const (
	InsuranceNone          InsuranceTier = "none"
	InsuranceBasic         InsuranceTier = "basic"
	InsurancePremium       InsuranceTier = "premium"
	InsuranceComprehensive InsuranceTier = "comprehensive"
)

var insuranceTiers = []InsuranceTier{InsuranceNone, InsuranceBasic, InsurancePremium, InsuranceComprehensive}

// InsuranceTiers lists the supported tiers, none first.
func InsuranceTiers() []InsuranceTier {
	out := make([]InsuranceTier, len(insuranceTiers))
	copy(out, insuranceTiers)
	return out
}

// ParseInsuranceTier matches value against the tier enumeration. An empty
// selection means no insurance.
func ParseInsuranceTier(value string) (InsuranceTier, bool) {
	v := InsuranceTier(strings.ToLower(strings.TrimSpace(value)))
	if v == "" {
		return InsuranceNone, true
	}
	for _, t := range insuranceTiers {
		if t == v {
			return t, true
		}
	}
	return "", false
}

// ItemCode returns the catalog code for the tier, empty for none.
func (t InsuranceTier) ItemCode() string {
	if t == InsuranceNone || t == "" {
		return ""
	}
	return "INSURANCE-" + strings.ToUpper(string(t))
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}
