// Package region holds the fixed set of named Indonesian regions the service
// can score, with the coordinates remote-sensing queries are centered on.
package region

import (
	"sort"
	"strings"
	"unicode"
)

// Model selects the environmental scoring profile for a district.
type Model string

const (
	ModelLand       Model = "land"        // vegetation, precipitation, soil moisture
	ModelAirQuality Model = "air_quality" // NO2, CO, SO2
	ModelSolarSite  Model = "solar_site"  // NO2, land-surface temperature
)

type Region struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Title returns the display name, e.g. "jawa barat" -> "Jawa Barat".
func (r Region) Title() string { return Title(r.Name) }

// Title upper-cases the first letter of every word.
func Title(s string) string {
	prev := ' '
	return strings.Map(func(c rune) rune {
		defer func() { prev = c }()
		if unicode.IsLetter(c) && !unicode.IsLetter(prev) {
			return unicode.ToUpper(c)
		}
		return unicode.ToLower(c)
	}, s)
}

// Normalize is the lookup key form of a region name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Set is an immutable name -> Region index.
type Set struct {
	byName map[string]Region
	names  []string
}

func newSet(regions []Region) *Set {
	s := &Set{byName: make(map[string]Region, len(regions))}
	for _, r := range regions {
		s.byName[r.Name] = r
		s.names = append(s.names, r.Name)
	}
	return s
}

// Lookup normalizes name and returns the region if known.
func (s *Set) Lookup(name string) (Region, bool) {
	r, ok := s.byName[Normalize(name)]
	return r, ok
}

// Names lists regions in declaration order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *Set) Len() int { return len(s.names) }

// District is a set of subdistricts scored with one environmental model.
type District struct {
	Name  string
	Model Model
	*Set
}

// Registry is the complete catalogue: provinces (plus the three regencies the
// batch job covers) and the districts with subdistrict coverage.
type Registry struct {
	Provinces *Set
	districts map[string]District
}

// Default returns the built-in registry.
func Default() *Registry {
	return &Registry{
		Provinces: newSet(provinces),
		districts: map[string]District{
			"bantul":        {Name: "bantul", Model: ModelAirQuality, Set: newSet(bantulSubdistricts)},
			"jakarta-pusat": {Name: "jakarta-pusat", Model: ModelSolarSite, Set: newSet(jakartaPusatSubdistricts)},
		},
	}
}

// District resolves a district by name; spaces and dashes are interchangeable.
func (r *Registry) District(name string) (District, bool) {
	key := strings.ReplaceAll(Normalize(name), " ", "-")
	d, ok := r.districts[key]
	return d, ok
}

// Districts returns district names sorted alphabetically.
func (r *Registry) Districts() []string {
	out := make([]string, 0, len(r.districts))
	for k := range r.districts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var provinces = []Region{
	{"aceh", 4.6951, 96.7494},
	{"sumatera utara", 2.1154, 99.5451},
	{"sumatera barat", -0.7399, 100.8000},
	{"riau", 0.5071, 101.4478},
	{"jambi", -1.4852, 102.4381},
	{"sumatera selatan", -3.3194, 103.9144},
	{"bengkulu", -3.7928, 102.2601},
	{"lampung", -4.5586, 105.4068},
	{"bangka belitung", -2.7410, 106.4406},
	{"kepulauan riau", 3.9457, 108.1429},
	{"dki jakarta", -6.2088, 106.8456},
	{"jawa barat", -6.8894, 107.6405},
	{"jawa tengah", -7.1500, 110.1403},
	{"di yogyakarta", -7.7956, 110.3695},
	{"jawa timur", -7.2504, 112.7688},
	{"banten", -6.4058, 106.0640},
	{"bali", -8.3405, 115.0920},
	{"nusa tenggara barat", -8.6529, 117.3616},
	{"nusa tenggara timur", -8.6574, 121.0794},
	{"kalimantan barat", 0.1326, 111.0966},
	{"kalimantan tengah", -1.6815, 113.3824},
	{"kalimantan selatan", -3.0926, 115.2838},
	{"kalimantan timur", 1.6407, 116.4194},
	{"kalimantan utara", 3.5071, 117.4991},
	{"sulawesi utara", 1.4025, 124.9831},
	{"sulawesi tengah", -1.4305, 120.7655},
	{"sulawesi selatan", -3.6688, 119.9741},
	{"sulawesi tenggara", -4.1461, 122.1743},
	{"gorontalo", 0.6994, 122.4467},
	{"sulawesi barat", -2.8440, 119.2321},
	{"maluku", -3.2385, 130.1453},
	{"maluku utara", 0.6348, 127.9721},
	{"papua", -4.2699, 138.0804},
	{"papua barat", -1.3361, 133.1747},
	{"papua selatan", -7.6710, 138.7648},
	{"papua tengah", -3.9917, 136.2804},
	{"papua pegunungan", -4.5415, 138.1185},
	{"sidoarjo", -7.4545375, 112.5005207},
	{"bantul", -7.902243, 110.2863846},
	{"jakarta pusat", -6.1822261, 106.7952647},
}

var bantulSubdistricts = []Region{
	{"srandakan", -7.9599944, 110.1975521},
	{"sanden", -7.9811811, 110.1881439},
	{"kretek", -7.9923989, 110.266404},
	{"pundong", -7.9713209, 110.3009071},
	{"bambang lipuro", -7.9445142, 110.2380219},
	{"pandak", -7.924187, 110.243655},
	{"bantul", -7.8913955, 110.295007},
	{"jetis", -7.9098564, 110.3251626},
	{"imogiri", -7.9375405, 110.3550834},
	{"dlingo", -7.919252, 110.4111034},
	{"pleret", -7.8773835, 110.3946772},
	{"piyungan", -7.845006, 110.4297405},
	{"banguntapan", -7.823617, 110.361653},
	{"sewon", -7.8558584, 110.3108565},
	{"kasihan", -7.8145279, 110.2754565},
	{"pajangan", -7.8720351, 110.248431},
	{"sedayu", -7.8239625, 110.2148165},
}

var jakartaPusatSubdistricts = []Region{
	{"gambir", -6.1768, 106.8215},
	{"tanah abang", -6.2053, 106.8179},
	{"menteng", -6.1970, 106.8304},
	{"senen", -6.1737, 106.8414},
	{"cempaka putih", -6.1714, 106.8702},
	{"johar baru", -6.1788, 106.8595},
	{"kemayoran", -6.1619, 106.8494},
	{"sawah besar", -6.1641, 106.8267},
}
