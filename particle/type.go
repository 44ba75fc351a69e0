package particle

import (
	"fmt"
	"strings"
)

// Type identifies the kind of particle being transported.
type Type int

const (
	Neutron Type = iota
	Photon
	Electron
	Positron
	AdjointNeutron
	AdjointPhoton
	AdjointElectron
	numTypes
)

// Rest mass energies in MeV.
const (
	NeutronRestMassEnergy  = 939.56542052
	ElectronRestMassEnergy = 0.51099895000
)

// SpeedOfLight in cm/s.
const SpeedOfLight = 29979245800.0

var typeNames = [numTypes]string{
	"Neutron", "Photon", "Electron", "Positron",
	"AdjointNeutron", "AdjointPhoton", "AdjointElectron",
}

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType converts a (case-insensitive) particle type name into a Type.
func ParseType(name string) (Type, error) {
	name = strings.TrimSpace(name)
	for t, s := range typeNames {
		if strings.EqualFold(s, name) {
			return Type(t), nil
		}
	}
	return 0, fmt.Errorf("particle: unrecognized particle type '%s'", name)
}

// AllTypes returns every particle type.
func AllTypes() []Type {
	ts := make([]Type, numTypes)
	for i := range ts {
		ts[i] = Type(i)
	}
	return ts
}

// IsAdjoint returns true for the adjoint particle types.
func (t Type) IsAdjoint() bool {
	return t == AdjointNeutron || t == AdjointPhoton || t == AdjointElectron
}

// RestMassEnergy returns the rest mass energy of the particle in MeV.
func (t Type) RestMassEnergy() float64 {
	switch t {
	case Neutron, AdjointNeutron:
		return NeutronRestMassEnergy
	case Electron, Positron, AdjointElectron:
		return ElectronRestMassEnergy
	}
	return 0
}
