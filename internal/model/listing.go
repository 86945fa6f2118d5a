package model

// Sorting selects the ordering policy for house listings
type Sorting string

const (
	SortNewest         Sorting = "newest"
	SortPrice          Sorting = "price"
	SortNotRentedFirst Sorting = "notRentedFirst"
)

// ParseSorting maps a query-string value to a sorting policy, defaulting to newest
func ParseSorting(s string) Sorting {
	switch Sorting(s) {
	case SortPrice:
		return SortPrice
	case SortNotRentedFirst:
		return SortNotRentedFirst
	default:
		return SortNewest
	}
}

// ListQuery describes a filtered, sorted, paginated listing request
type ListQuery struct {
	Category   string
	SearchTerm string
	Sorting    Sorting
	Page       int
	PageSize   int
}

// HouseSummary is the listing projection of a house
type HouseSummary struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Address       string  `json:"address"`
	ImageURL      string  `json:"image_url"`
	PricePerMonth float64 `json:"price_per_month"`
	IsRented      bool    `json:"is_rented"`
}

// HouseDetails is the detail projection: the house joined with its
// category name and the owning agent's contact data
type HouseDetails struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Address       string  `json:"address"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"image_url"`
	PricePerMonth float64 `json:"price_per_month"`
	IsRented      bool    `json:"is_rented"`
	Category      string  `json:"category"`
	AgentPhone    string  `json:"agent_phone"`
	AgentEmail    string  `json:"agent_email"`
}

// HouseFields carries the mutable fields for create/edit
type HouseFields struct {
	Title         string
	Address       string
	Description   string
	ImageURL      string
	PricePerMonth float64
	CategoryID    uint
}

// SummaryOf projects a house entity to its listing summary
func SummaryOf(h House) HouseSummary {
	return HouseSummary{
		ID:            h.ID,
		Title:         h.Title,
		Address:       h.Address,
		ImageURL:      h.ImageURL,
		PricePerMonth: h.PricePerMonth,
		IsRented:      h.IsRented(),
	}
}
