package costing

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bidengine/pkg/application/config"
	"github.com/vsinha/bidengine/pkg/domain/entities"
)

// Zone types detected from delivery locations
const (
	ZoneHilly   = "Hilly"
	ZoneCoastal = "Coastal"
	ZoneDesert  = "Desert"
	ZoneIsland  = "Island"
	ZoneUrban   = "Urban"
	ZonePlains  = "Plains_Highway"
)

// Checked in order; the first keyword found in the location wins
var zoneKeywords = []struct {
	keyword  string
	zoneType string
}{
	{"hilly", ZoneHilly},
	{"mountain", ZoneHilly},
	{"remote", ZoneHilly},
	{"coastal", ZoneCoastal},
	{"port", ZoneCoastal},
	{"sea", ZoneCoastal},
	{"desert", ZoneDesert},
	{"rajasthan", ZoneDesert},
	{"kutch", ZoneDesert},
	{"island", ZoneIsland},
	{"andaman", ZoneIsland},
	{"urban", ZoneUrban},
	{"city", ZoneUrban},
	{"metro", ZoneUrban},
}

// builtinZone is used when the reference data has no zones at all
var builtinZone = entities.LogisticsZone{
	ZoneCode:              "BUILTIN",
	ZoneType:              ZonePlains,
	TransportRatePerTonKm: 5.0,
	SurchargeMultiplier:   1.0,
}

const earthRadiusKm = 6371.0

// LogisticsCost is one freight leg from the factory to the delivery site
type LogisticsCost struct {
	Zone       entities.LogisticsZone
	ZoneType   string
	DistanceKm float64
	Tons       decimal.Decimal
	Freight    decimal.Decimal
	Fuel       decimal.Decimal
	Insurance  decimal.Decimal
	Handling   decimal.Decimal
	Total      decimal.Decimal
	RiskFactor decimal.Decimal
	Formula    string
}

// ResolveZoneType maps free-text delivery location to a zone type
func ResolveZoneType(location string) string {
	loc := strings.ToLower(location)
	for _, kw := range zoneKeywords {
		if strings.Contains(loc, kw.keyword) {
			return kw.zoneType
		}
	}
	return ZonePlains
}

// ResolveZone finds the zone record for a location, falling back to the
// default zone, then the first zone, then a built-in plains rate.
func (c *Composer) ResolveZone(location string) entities.LogisticsZone {
	detected := strings.ToLower(ResolveZoneType(location))
	zones := c.ref.GetZones()
	for _, z := range zones {
		if strings.Contains(strings.ToLower(z.ZoneType), detected) {
			return *z
		}
	}
	if z, err := c.ref.GetZone(c.cfg.Logistics.DefaultZoneCode); err == nil {
		return *z
	}
	if len(zones) > 0 {
		return *zones[0]
	}
	return builtinZone
}

// Logistics prices freight for weightKg over distanceKm to location
func (c *Composer) Logistics(weightKg decimal.Decimal, distanceKm float64, location string) LogisticsCost {
	lc := c.cfg.Logistics
	zone := c.ResolveZone(location)

	tons := weightKg.Div(decimal.NewFromInt(1000))
	if tons.LessThan(decimal.NewFromInt(1)) {
		tons = decimal.NewFromInt(1)
	}

	freight := decimal.Zero
	if distanceKm > 0 {
		freight = tons.Mul(dec(distanceKm)).Mul(dec(zone.TransportRatePerTonKm)).Mul(dec(zone.SurchargeMultiplier))
	}
	fuel := freight.Mul(dec(lc.FuelSurchargePct))
	insurance := freight.Mul(decimal.NewFromInt(100)).Mul(dec(lc.InsurancePct))
	handling := tons.Mul(dec(lc.HandlingPerTon))

	return LogisticsCost{
		Zone:       zone,
		ZoneType:   ResolveZoneType(location),
		DistanceKm: distanceKm,
		Tons:       tons,
		Freight:    freight,
		Fuel:       fuel,
		Insurance:  insurance,
		Handling:   handling,
		Total:      freight.Add(fuel).Add(insurance).Add(handling),
		RiskFactor: dec(zone.RiskFactorPercent),
		Formula: fmt.Sprintf("(%sT x %vkm x %v rate x %v zone %s)",
			tons.StringFixed(2), distanceKm, zone.TransportRatePerTonKm, zone.SurchargeMultiplier, zone.ZoneCode),
	}
}

// DistanceKm resolves the delivery distance of an RFP: an explicit positive
// distance, else the great-circle distance from the delivery coordinates to
// the factory, else the configured default.
func DistanceKm(rfp *entities.RFP, cfg config.LogisticsConfig) float64 {
	if rfp.DistanceKm > 0 {
		return rfp.DistanceKm
	}
	if rfp.DeliveryCoordinates != nil {
		d := Haversine(cfg.FactoryLat, cfg.FactoryLon, rfp.DeliveryCoordinates.Lat, rfp.DeliveryCoordinates.Lon)
		return math.Round(d*10) / 10
	}
	return cfg.DefaultDistanceKm
}

// Haversine returns the great-circle distance in km between two points
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
