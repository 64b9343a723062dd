package market

import "fmt"

// Currency is an ISO 4217 currency code.
type Currency string

const (
	AUD Currency = "AUD"
	CAD Currency = "CAD"
	CHF Currency = "CHF"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	NZD Currency = "NZD"
	USD Currency = "USD"
)

// Majors is the fixed set of most-traded currencies. Transitional pairs for
// profit/loss conversion are built against this set.
var Majors = []Currency{AUD, CAD, CHF, EUR, GBP, JPY, NZD, USD}

// priority encodes the venue's canonical pair ordering: the currency with the
// lower rank is always the base of a pair.
var priority = map[Currency]int{
	EUR: 0,
	GBP: 1,
	AUD: 2,
	NZD: 3,
	USD: 4,
	CAD: 5,
	CHF: 6,
	JPY: 7,
}

// Instrument is a venue-tradable currency pair with its quoting metadata.
// Identity is the currency pair; instruments are immutable.
type Instrument struct {
	Name         string
	Base         Currency
	Quote        Currency
	PipScale     int     // decimal digits per pip: EUR_USD 4, USD_JPY 2
	MinTradeSize float64 // in lot-units (millions of base currency)
}

// PipValue returns the price increment of one pip.
func (i Instrument) PipValue() float64 {
	v := 1.0
	for n := 0; n < i.PipScale; n++ {
		v /= 10
	}
	return v
}

func (i Instrument) String() string { return i.Name }

// Instruments is the registry of tradable pairs, keyed by canonical name.
// Built once at init and read-only thereafter.
var Instruments = map[string]Instrument{}

func init() {
	for i, base := range Majors {
		for j, quote := range Majors {
			if i == j || priority[base] > priority[quote] {
				continue
			}
			inst := define(base, quote)
			Instruments[inst.Name] = inst
		}
	}
}

func define(base, quote Currency) Instrument {
	scale := 4
	if quote == JPY {
		scale = 2
	}
	return Instrument{
		Name:         string(base) + "_" + string(quote),
		Base:         base,
		Quote:        quote,
		PipScale:     scale,
		MinTradeSize: 0.001,
	}
}

// Pair resolves an unordered currency pair to the venue-canonical instrument,
// inverting the requested order when the venue quotes the pair the other way.
func Pair(a, b Currency) (Instrument, error) {
	base, quote := a, b
	if inverted(base, quote) {
		base, quote = quote, base
	}
	inst, ok := Instruments[string(base)+"_"+string(quote)]
	if !ok {
		return Instrument{}, fmt.Errorf("unknown instrument %s_%s", base, quote)
	}
	return inst, nil
}

func inverted(base, quote Currency) bool {
	pb, ok := priority[base]
	if !ok {
		return false
	}
	pq, ok := priority[quote]
	if !ok {
		return false
	}
	return pb > pq
}
