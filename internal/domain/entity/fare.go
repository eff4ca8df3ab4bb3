package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Price is a normalized fare price difference. Negative amounts mean the
// current fare is cheaper than what was paid.
type Price struct {
	Amount       int    `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (p Price) String() string {
	return fmt.Sprintf("%d %s", p.Amount, p.CurrencyCode)
}

// PriceDifference is the wire form of a fare delta, e.g. amount "3,000" with
// sign "-" for a 3000 point drop.
type PriceDifference struct {
	Amount       string `json:"amount"`
	Sign         string `json:"sign"`
	CurrencyCode string `json:"currencyCode"`
}

// Parse converts the wire form into a signed Price
func (d *PriceDifference) Parse() (Price, error) {
	amount, err := strconv.Atoi(strings.ReplaceAll(d.Amount, ",", ""))
	if err != nil {
		return Price{}, fmt.Errorf("failed to parse fare amount %q: %w", d.Amount, err)
	}
	if d.Sign == "-" {
		amount = -amount
	}
	return Price{Amount: amount, CurrencyCode: d.CurrencyCode}, nil
}

// FareMeta identifies the fare product of a fare entry
type FareMeta struct {
	FareProductID string `json:"fareProductId"`
}

// Fare is one fare option on a matching-flights card
type Fare struct {
	Meta            FareMeta         `json:"_meta"`
	PriceDifference *PriceDifference `json:"priceDifference"`
}

// FlightCard is one flight option on the change-shopping page
type FlightCard struct {
	FlightNumbers   string `json:"flightNumbers"`
	StopDescription string `json:"stopDescription"`
	Fares           []Fare `json:"fares"`
}

// BoundSelection describes one bound on the change-flight page
type BoundSelection struct {
	OriginalDate    string `json:"originalDate"`
	FromAirportCode string `json:"fromAirportCode"`
	ToAirportCode   string `json:"toAirportCode"`
	Flight          string `json:"flight"`
}

// FareProductDetails carries the fare type purchased for a reservation bound
type FareProductDetails struct {
	FareProductID string `json:"fareProductId"`
}

// BoundReference is the shopping request stub for one bound
type BoundReference struct {
	BoundReference string `json:"boundReference"`
}

// ChangeShoppingLink is the follow-up request for the shopping page
type ChangeShoppingLink struct {
	Href string           `json:"href"`
	Body []BoundReference `json:"body"`
}

// ChangeFlightLinks holds the follow-up links of the change-flight page
type ChangeFlightLinks struct {
	ChangeShopping *ChangeShoppingLink `json:"changeShopping"`
}

// ChangeFlightPage is the airline's change-flight page for a reservation
type ChangeFlightPage struct {
	BoundSelections []BoundSelection   `json:"boundSelections"`
	Links           *ChangeFlightLinks `json:"_links"`
}

// ShoppingPage holds the matching-flight cards per direction
type ShoppingPage struct {
	OutboundPage CardPage `json:"outboundPage"`
	InboundPage  CardPage `json:"inboundPage"`
}

// CardPage is one direction's list of flight cards
type CardPage struct {
	Cards []FlightCard `json:"cards"`
}

// BoundQuery is one bound entry of a change-shopping search request
type BoundQuery struct {
	BoundReference     string `json:"boundReference"`
	Date               string `json:"date"`
	DestinationAirport string `json:"destination-airport"`
	OriginAirport      string `json:"origin-airport"`
	IsChangeBound      bool   `json:"isChangeBound"`
}
