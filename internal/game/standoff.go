package game

import "github.com/spacehole-rogue/starflight/internal/world"

// Standoff is how far from a target's centre autonav stops.
//
// Stars keep the ship outside their heat radius with a margin. Stations and
// planets stop partway inside the dock radius so the resolver can dock.
// Ships keep a multiple of their size. Fixed points and interstellar
// targets have none.
func Standoff(t world.NavigationTarget, ap AutonavParams, dp DockParams) float64 {
	if t.Interstellar || !t.HasEntity {
		return 0
	}
	switch t.Kind {
	case world.KindStar:
		return t.Radius * ap.StarHeatRadiusFactor * ap.StarStandoffMargin
	case world.KindStation:
		return t.Radius * dp.StationDockFactor * ap.DockStandoffFraction
	case world.KindPlanet:
		return t.Radius * dp.PlanetDockFactor * ap.DockStandoffFraction
	case world.KindShip:
		return t.Radius * ap.ShipStandoffFactor
	}
	return 0
}
