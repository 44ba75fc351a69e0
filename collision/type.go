package collision

import (
	"fmt"
	"strings"
)

// Type identifies the physical process a Reaction models.
type Type int

const (
	NuclearElastic Type = iota
	NuclearLevelInelastic
	NuclearContinuumInelastic
	NuclearN2N
	NuclearFission
	NuclearCapture

	PhotoatomicIncoherent
	PhotoatomicCoherent
	PhotoatomicPairProduction
	PhotoatomicTripletProduction
	PhotoatomicPhotoelectric

	ElectroatomicElastic
	ElectroatomicBremsstrahlung
	ElectroatomicIonization
	ElectroatomicExcitation

	PositronatomicAnnihilation
)

var typeNames = []string{
	"NuclearElastic",
	"NuclearLevelInelastic",
	"NuclearContinuumInelastic",
	"NuclearN2N",
	"NuclearFission",
	"NuclearCapture",
	"PhotoatomicIncoherent",
	"PhotoatomicCoherent",
	"PhotoatomicPairProduction",
	"PhotoatomicTripletProduction",
	"PhotoatomicPhotoelectric",
	"ElectroatomicElastic",
	"ElectroatomicBremsstrahlung",
	"ElectroatomicIonization",
	"ElectroatomicExcitation",
	"PositronatomicAnnihilation",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType converts a case-insensitive reaction name into a Type.
func ParseType(name string) (Type, error) {
	name = strings.TrimSpace(name)
	for i, tn := range typeNames {
		if strings.EqualFold(tn, name) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("collision: unrecognized reaction type '%s'", name)
}

// IsAbsorption returns true for reactions which terminate the incoming
// particle without emitting it again.
func (t Type) IsAbsorption() bool {
	return t == NuclearCapture || t == PhotoatomicPhotoelectric
}
