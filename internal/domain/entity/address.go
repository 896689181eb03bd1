package entity

// PostalCodeLength is the exact length of a valid postal code (CEP).
const PostalCodeLength = 8

// Address is the postal address embedded in a user record. Only PostalCode and Number
// come from the member; the rest is filled in by the postal code lookup.
type Address struct {
	PostalCode string `json:"postalCode"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
}

// IsComplete reports whether the member supplied the fields required for lookup.
func (a *Address) IsComplete() bool {
	return a != nil && a.PostalCode != "" && a.Number != ""
}
