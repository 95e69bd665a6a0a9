package news

import (
	"math/rand/v2"
	"strings"

	"github.com/mind-engage/greenscore/internal/scoring"
)

// Category is a label with the keywords that select it.
type Category struct {
	Name     string
	Keywords []string
}

// Classifier matches headlines against an ordered category list. The first
// category with any keyword contained in the headline wins; a headline that
// matches nothing gets a random category.
type Classifier struct {
	categories []Category
	rnd        *rand.Rand
}

// NewClassifier uses rnd for the random fallbacks; nil uses the global source.
func NewClassifier(categories []Category, rnd *rand.Rand) *Classifier {
	return &Classifier{categories: categories, rnd: rnd}
}

func (c *Classifier) intn(n int) int {
	if c.rnd != nil {
		return c.rnd.IntN(n)
	}
	return rand.IntN(n)
}

// Category returns the category for title.
func (c *Classifier) Category(title string) string {
	if len(c.categories) == 0 {
		return scoring.NotAvailable
	}
	t := strings.ToLower(title)
	for _, cat := range c.categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(t, kw) {
				return cat.Name
			}
		}
	}
	return c.categories[c.intn(len(c.categories))].Name
}

// Classify picks one headline at random and categorizes it.
func (c *Classifier) Classify(headlines []string) string {
	if len(headlines) == 0 {
		headlines = []string{NoNews}
	}
	return c.Category(headlines[c.intn(len(headlines))])
}

// GreenInfrastructure is the ordered green-infrastructure mapping.
func GreenInfrastructure() []Category {
	return []Category{
		{scoring.RoofGarden, []string{"roof garden", "atap hijau"}},
		{scoring.MangroveReforestation, []string{"mangrove", "reforestasi"}},
		{scoring.RainwaterHarvesting, []string{"air hujan", "penampungan air"}},
		{scoring.EnergyEfficientBuild, []string{"hemat energi", "bangunan hijau"}},
		{scoring.SustainableTransport, []string{"transportasi berkelanjutan", "kendaraan listrik"}},
		{scoring.Biopori, []string{"biopori"}},
		{scoring.Ecotourism, []string{"ekowisata", "wisata hijau"}},
		{scoring.UrbanForest, []string{"hutan kota"}},
		{scoring.GreenWall, []string{"dinding hijau", "vertical garden"}},
		{scoring.SolarPanel, []string{"solar panel", "energi surya"}},
		{scoring.GreenWastewater, []string{"air limbah", "pengolahan limbah"}},
		{scoring.GreenBelt, []string{"jalur hijau", "jalan hijau"}},
		{scoring.BiofuelPlantations, []string{"biofuel", "energi biomassa"}},
	}
}

// RenewableEnergy is the ordered renewable-energy mapping.
func RenewableEnergy() []Category {
	return []Category{
		{"Energi Surya", []string{"solar", "energi surya", "panel surya"}},
		{"Energi Angin", []string{"angin", "turbin angin"}},
		{"Energi Air", []string{"hidro", "energi air", "pembangkit listrik tenaga air"}},
		{"Panas Bumi", []string{"geotermal", "panas bumi"}},
		{"Biomassa", []string{"biomassa", "biofuel"}},
	}
}
