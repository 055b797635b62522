package models

// Caller identifies whoever is making a request. The zero value is an
// anonymous caller.
type Caller struct {
	TokenIdentifier string
}

func Anonymous() Caller { return Caller{} }

func (c Caller) Authenticated() bool { return c.TokenIdentifier != "" }
