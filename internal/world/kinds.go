package world

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies what a body in a star system is.
type Kind uint8

const (
	KindStar Kind = iota
	KindPlanet
	KindStation
	KindShip
)

var kindNames = [...]string{"star", "planet", "station", "ship"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, s) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown body kind %q", s)
}

// UnmarshalJSON accepts the lower-case kind name.
func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Faction decides a ship's colour and attitude.
type Faction uint8

const (
	FactionNeutral Faction = iota
	FactionEscort
	FactionHostile
	FactionPlayer
)

var factionNames = [...]string{"neutral", "escort", "hostile", "player"}

func (f Faction) String() string {
	if int(f) < len(factionNames) {
		return factionNames[f]
	}
	return fmt.Sprintf("faction(%d)", f)
}

// UnmarshalJSON accepts the lower-case faction name.
func (f *Faction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for i, n := range factionNames {
		if strings.EqualFold(n, s) {
			*f = Faction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown faction %q", s)
}

// Flags are per-body rendering and behaviour bits.
type Flags uint8

const (
	FlagRinged Flags = 1 << iota
	FlagEscort
	FlagHostile
)

// Has reports whether every bit of f2 is set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }
