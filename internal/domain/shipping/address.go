package shipping

// PostalAddress is a projection of a party's postal address together with the
// owning company name. It has no lifecycle of its own; the host ERP assembles
// one per request from its party and company records.
type PostalAddress struct {
	CompanyName     string `json:"companyName"`
	PersonName      string `json:"personName"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Street          string `json:"street"`
	StreetBis       string `json:"streetBis"`
	City            string `json:"city"`
	SubdivisionCode string `json:"subdivisionCode"`
	PostalCode      string `json:"postalCode"`
	CountryCode     string `json:"countryCode"`
}

// StreetLines returns the street lines in order, omitting blank entries.
func (a PostalAddress) StreetLines() []string {
	lines := make([]string, 0, 2)
	if a.Street != "" {
		lines = append(lines, a.Street)
	}
	if a.StreetBis != "" {
		lines = append(lines, a.StreetBis)
	}
	return lines
}
