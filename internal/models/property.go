package models

// PropertyType classifies the physical form of a listing.
type PropertyType string

const (
	PropertyTypeFlat         PropertyType = "flat"
	PropertyTypeTerraced     PropertyType = "terraced"
	PropertyTypeSemiDetached PropertyType = "semi-detached"
	PropertyTypeDetached     PropertyType = "detached"
	PropertyTypeBungalow     PropertyType = "bungalow"
	PropertyTypeOther        PropertyType = "other"
)

// Tenure is the legal basis on which a property is held.
type Tenure string

const (
	TenureFreehold  Tenure = "freehold"
	TenureLeasehold Tenure = "leasehold"
)

// TransactionType distinguishes sale listings from rental listings.
type TransactionType string

const (
	TransactionSale TransactionType = "sale"
	TransactionRent TransactionType = "rent"
)

// DataSource records how a property's details entered the system.
type DataSource string

const (
	SourceScraped DataSource = "scraped"
	SourceManual  DataSource = "manual"
)

type Address struct {
	Line1    string `json:"line1"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
}

// Property is the immutable subject of a deal. It is supplied whole by the
// listing scraper or a manual-entry form and never mutated by the analysis
// engines.
type Property struct {
	Address         Address         `json:"address"`
	Bedrooms        int             `json:"bedrooms"`
	Bathrooms       int             `json:"bathrooms"`
	PropertyType    PropertyType    `json:"property_type"`
	AskingPrice     float64         `json:"asking_price"`
	TransactionType TransactionType `json:"transaction_type"`
	Tenure          Tenure          `json:"tenure"`
	LeaseYears      *int            `json:"lease_years,omitempty"`
	GroundRent      *float64        `json:"ground_rent,omitempty"`
	ServiceCharge   *float64        `json:"service_charge,omitempty"`
	IsArticle4      bool            `json:"is_article4"`
	Description     string          `json:"description,omitempty"`
	SourceURL       string          `json:"source_url,omitempty"`
	Source          DataSource      `json:"source"`
	Images          []string        `json:"images,omitempty"`
	Latitude        *float64        `json:"latitude,omitempty"`
	Longitude       *float64        `json:"longitude,omitempty"`
}
