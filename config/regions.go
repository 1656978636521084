package config

import "strings"

// DefaultRegionKey is the fallback entry used when a postcode matches no
// configured area.
const DefaultRegionKey = "DEFAULT"

// RegionData is the static market benchmark for one UK postcode area,
// normalized to a three-bedroom terraced baseline.
type RegionData struct {
	Name             string  `json:"name"`
	AveragePrice     float64 `json:"average_price"`
	AverageRent      float64 `json:"average_rent"`
	PricePerSqft     float64 `json:"price_per_sqft"`
	YearOnYearChange float64 `json:"year_on_year_change"`
}

// RegionTable maps postcode area prefixes (the leading letters, e.g. "M",
// "LS", "SW") to their benchmark data. Tables are read-only after
// construction; a live data source can substitute its own table without
// touching the market engine.
type RegionTable map[string]RegionData

// Lookup resolves a postcode to its region by longest prefix: the two-letter
// area is tried before the one-letter area. The second return reports
// whether a configured area matched; false means the DEFAULT entry was used.
func (t RegionTable) Lookup(postcode string) (RegionData, bool) {
	prefix := PostcodeArea(postcode)

	if len(prefix) == 2 {
		if data, ok := t[prefix]; ok {
			return data, true
		}
	}
	if len(prefix) >= 1 {
		if data, ok := t[prefix[:1]]; ok {
			return data, true
		}
	}

	return t[DefaultRegionKey], false
}

// PostcodeArea extracts the leading letters of a UK postcode, uppercased.
// "m4 5ab" → "M", "LS1 4AP" → "LS". At most two letters are significant.
func PostcodeArea(postcode string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(postcode))

	var letters []byte
	for i := 0; i < len(trimmed) && len(letters) < 2; i++ {
		c := trimmed[i]
		if c < 'A' || c > 'Z' {
			break
		}
		letters = append(letters, c)
	}
	return string(letters)
}

// UKRegions is the built-in benchmark table. Figures are indicative regional
// averages, not a live feed.
var UKRegions = RegionTable{
	"M":  {Name: "Manchester", AveragePrice: 245000, AverageRent: 1150, PricePerSqft: 275, YearOnYearChange: 6.2},
	"B":  {Name: "Birmingham", AveragePrice: 235000, AverageRent: 1050, PricePerSqft: 260, YearOnYearChange: 4.8},
	"LS": {Name: "Leeds", AveragePrice: 240000, AverageRent: 1100, PricePerSqft: 265, YearOnYearChange: 5.5},
	"L":  {Name: "Liverpool", AveragePrice: 185000, AverageRent: 850, PricePerSqft: 210, YearOnYearChange: 5.9},
	"S":  {Name: "Sheffield", AveragePrice: 210000, AverageRent: 900, PricePerSqft: 230, YearOnYearChange: 4.2},
	"NE": {Name: "Newcastle upon Tyne", AveragePrice: 180000, AverageRent: 825, PricePerSqft: 205, YearOnYearChange: 3.6},
	"NG": {Name: "Nottingham", AveragePrice: 215000, AverageRent: 950, PricePerSqft: 240, YearOnYearChange: 4.9},
	"LE": {Name: "Leicester", AveragePrice: 225000, AverageRent: 975, PricePerSqft: 245, YearOnYearChange: 3.8},
	"BS": {Name: "Bristol", AveragePrice: 350000, AverageRent: 1450, PricePerSqft: 390, YearOnYearChange: 2.9},
	"BD": {Name: "Bradford", AveragePrice: 155000, AverageRent: 750, PricePerSqft: 175, YearOnYearChange: 5.1},
	"HU": {Name: "Hull", AveragePrice: 140000, AverageRent: 650, PricePerSqft: 160, YearOnYearChange: 3.2},
	"ST": {Name: "Stoke-on-Trent", AveragePrice: 145000, AverageRent: 700, PricePerSqft: 165, YearOnYearChange: 4.4},
	"PR": {Name: "Preston", AveragePrice: 165000, AverageRent: 775, PricePerSqft: 185, YearOnYearChange: 4.0},
	"SR": {Name: "Sunderland", AveragePrice: 135000, AverageRent: 625, PricePerSqft: 150, YearOnYearChange: 2.8},
	"CF": {Name: "Cardiff", AveragePrice: 260000, AverageRent: 1100, PricePerSqft: 280, YearOnYearChange: 3.4},
	"G":  {Name: "Glasgow", AveragePrice: 190000, AverageRent: 950, PricePerSqft: 220, YearOnYearChange: 5.7},
	"EH": {Name: "Edinburgh", AveragePrice: 320000, AverageRent: 1350, PricePerSqft: 360, YearOnYearChange: 4.6},
	"N":  {Name: "North London", AveragePrice: 565000, AverageRent: 2100, PricePerSqft: 620, YearOnYearChange: 1.2},
	"E":  {Name: "East London", AveragePrice: 495000, AverageRent: 1950, PricePerSqft: 560, YearOnYearChange: 1.8},
	"SW": {Name: "South West London", AveragePrice: 720000, AverageRent: 2600, PricePerSqft: 780, YearOnYearChange: 0.6},
	"SE": {Name: "South East London", AveragePrice: 520000, AverageRent: 2000, PricePerSqft: 580, YearOnYearChange: 1.5},
	"NW": {Name: "North West London", AveragePrice: 640000, AverageRent: 2350, PricePerSqft: 700, YearOnYearChange: 0.9},

	DefaultRegionKey: {Name: "United Kingdom", AveragePrice: 285000, AverageRent: 1250, PricePerSqft: 310, YearOnYearChange: 3.0},
}
