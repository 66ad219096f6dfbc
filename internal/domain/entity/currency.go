package entity

// Currency is an ISO 4217 currency code supported by the application.
// Stored as its string code, never as an index.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyCHF Currency = "CHF"
)

var validCurrencies = map[Currency]bool{
	CurrencyEUR: true,
	CurrencyUSD: true,
	CurrencyGBP: true,
	CurrencyCHF: true,
}

// IsValid returns true if the currency is supported
func (c Currency) IsValid() bool {
	return validCurrencies[c]
}

// Symbol returns the display symbol for the currency
func (c Currency) Symbol() string {
	switch c {
	case CurrencyEUR:
		return "€"
	case CurrencyUSD:
		return "$"
	case CurrencyGBP:
		return "£"
	case CurrencyCHF:
		return "CHF"
	default:
		return string(c)
	}
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}
