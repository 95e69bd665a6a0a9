package scoring

import "strings"

// NotAvailable is the label reported when a region has no classified infrastructure.
const NotAvailable = "Not Available"

// Green-infrastructure categories produced by the news classifier.
const (
	RoofGarden            = "Roof Garden"
	MangroveReforestation = "Mangrove Reforestation"
	RainwaterHarvesting   = "Penampungan Air Hujan"
	EnergyEfficientBuild  = "Bangunan Hemat Energi"
	SustainableTransport  = "Transportasi Berkelanjutan"
	Biopori               = "Biopori"
	Ecotourism            = "Ekowisata"
	UrbanForest           = "Hutan Kota"
	GreenWall             = "Dinding Hijau"
	SolarPanel            = "Solar Panel"
	GreenWastewater       = "Rekayasa Air Limbah Hijau"
	GreenBelt             = "Jalur Hijau"
	BiofuelPlantations    = "Biofuel Plantations"
)

// CostTable is an immutable label -> cost lookup. Unknown labels resolve to
// half of the table maximum.
type CostTable struct {
	unit    string
	max     float64
	entries map[string]float64
}

// NewCostTable copies entries into a case-insensitive table whose efficiency
// is measured against max.
func NewCostTable(unit string, max float64, entries map[string]float64) CostTable {
	m := make(map[string]float64, len(entries))
	for k, v := range entries {
		m[tableKey(k)] = v
	}
	return CostTable{unit: unit, max: max, entries: m}
}

// Unit names the table's units.
func (t CostTable) Unit() string { return t.unit }

// Max is the reference maximum cost.
func (t CostTable) Max() float64 { return t.max }

// Fallback is the neutral middling cost assigned to unknown labels.
func (t CostTable) Fallback() float64 { return t.max / 2 }

// Lookup returns the cost of label and whether it was known.
func (t CostTable) Lookup(label string) (float64, bool) {
	v, ok := t.entries[tableKey(label)]
	if !ok {
		return t.Fallback(), false
	}
	return v, true
}

// CostOf is Lookup without the known flag.
func (t CostTable) CostOf(label string) float64 {
	v, _ := t.Lookup(label)
	return v
}

// Efficiency is (1 - cost/max) * 100 clamped to [0,100]; cheaper is better.
func (t CostTable) Efficiency(label string) float64 {
	if t.max <= 0 {
		return 0
	}
	return Clamp((1-t.CostOf(label)/t.max)*100, 0, 100)
}

func tableKey(label string) string { return strings.ToLower(strings.TrimSpace(label)) }

// InfrastructureCosts is the cost-unit table (1.8-15.3).
func InfrastructureCosts() CostTable {
	return NewCostTable("cost units", 15.3, map[string]float64{
		RoofGarden:            4.5,
		MangroveReforestation: 3.2,
		RainwaterHarvesting:   2.1,
		EnergyEfficientBuild:  12.6,
		SustainableTransport:  15.3,
		Biopori:               1.8,
		Ecotourism:            6.4,
		UrbanForest:           5.7,
		GreenWall:             3.9,
		SolarPanel:            10.8,
		GreenWastewater:       9.5,
		GreenBelt:             7.2,
		BiofuelPlantations:    8.6,
	})
}

// InfrastructureRatings is the rating-unit table (20-90) measured against 100,
// so efficiency reduces to 100 - rating and unknown labels rate 50.
func InfrastructureRatings() CostTable {
	return NewCostTable("rating units", 100, map[string]float64{
		RoofGarden:            35,
		MangroveReforestation: 30,
		RainwaterHarvesting:   25,
		EnergyEfficientBuild:  75,
		SustainableTransport:  90,
		Biopori:               20,
		Ecotourism:            45,
		UrbanForest:           40,
		GreenWall:             30,
		SolarPanel:            65,
		GreenWastewater:       60,
		GreenBelt:             50,
		BiofuelPlantations:    55,
	})
}

var (
	defaultCosts   = InfrastructureCosts()
	defaultRatings = InfrastructureRatings()
)

// ResolveInfrastructureCost looks label up in the default cost-unit table.
func ResolveInfrastructureCost(label string) float64 { return defaultCosts.CostOf(label) }

// ResolveInfrastructureRating looks label up in the default rating-unit table.
func ResolveInfrastructureRating(label string) float64 { return defaultRatings.CostOf(label) }
