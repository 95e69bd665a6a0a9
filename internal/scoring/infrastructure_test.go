package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveInfrastructureCost(t *testing.T) {
	assert.Equal(t, 10.8, ResolveInfrastructureCost(SolarPanel))
	assert.Equal(t, 10.8, ResolveInfrastructureCost("  solar panel "))
	assert.Equal(t, 1.8, ResolveInfrastructureCost(Biopori))
	assert.Equal(t, 15.3/2, ResolveInfrastructureCost("Hyperloop"))
	assert.Equal(t, 15.3/2, ResolveInfrastructureCost(NotAvailable))
	assert.Equal(t, 15.3/2, ResolveInfrastructureCost(""))
}

func TestResolveInfrastructureRating(t *testing.T) {
	assert.Equal(t, 65.0, ResolveInfrastructureRating(SolarPanel))
	assert.Equal(t, 50.0, ResolveInfrastructureRating("unknown"))
}

func TestCostTableRanges(t *testing.T) {
	costs := InfrastructureCosts()
	ratings := InfrastructureRatings()
	labels := []string{
		RoofGarden, MangroveReforestation, RainwaterHarvesting, EnergyEfficientBuild,
		SustainableTransport, Biopori, Ecotourism, UrbanForest, GreenWall, SolarPanel,
		GreenWastewater, GreenBelt, BiofuelPlantations,
	}
	for _, l := range labels {
		c, ok := costs.Lookup(l)
		assert.True(t, ok, l)
		assert.GreaterOrEqual(t, c, 1.8, l)
		assert.LessOrEqual(t, c, 15.3, l)

		r, ok := ratings.Lookup(l)
		assert.True(t, ok, l)
		assert.GreaterOrEqual(t, r, 20.0, l)
		assert.LessOrEqual(t, r, 90.0, l)
		assert.InDelta(t, 100-r, ratings.Efficiency(l), 1e-9, l)
	}
	assert.Equal(t, 0.0, costs.Efficiency(SustainableTransport))
	assert.InDelta(t, 29.41, costs.Efficiency(SolarPanel), 0.01)
	assert.Equal(t, "cost units", costs.Unit())
}
