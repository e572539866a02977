package stripe

// Currency is a three-letter ISO 4217 currency code, in lowercase. The set
// below covers the common ones, a code outside of it decodes and encodes
// fine.
type Currency string

const (
	CurrencyAED Currency = "aed"
	CurrencyAUD Currency = "aud"
	CurrencyBRL Currency = "brl"
	CurrencyCAD Currency = "cad"
	CurrencyCHF Currency = "chf"
	CurrencyCNY Currency = "cny"
	CurrencyCZK Currency = "czk"
	CurrencyDKK Currency = "dkk"
	CurrencyEUR Currency = "eur"
	CurrencyGBP Currency = "gbp"
	CurrencyHKD Currency = "hkd"
	CurrencyHUF Currency = "huf"
	CurrencyIDR Currency = "idr"
	CurrencyILS Currency = "ils"
	CurrencyINR Currency = "inr"
	CurrencyJPY Currency = "jpy"
	CurrencyKRW Currency = "krw"
	CurrencyMXN Currency = "mxn"
	CurrencyMYR Currency = "myr"
	CurrencyNOK Currency = "nok"
	CurrencyNZD Currency = "nzd"
	CurrencyPHP Currency = "php"
	CurrencyPLN Currency = "pln"
	CurrencyRON Currency = "ron"
	CurrencyRUB Currency = "rub"
	CurrencySEK Currency = "sek"
	CurrencySGD Currency = "sgd"
	CurrencyTHB Currency = "thb"
	CurrencyTRY Currency = "try"
	CurrencyTWD Currency = "twd"
	CurrencyUSD Currency = "usd"
	CurrencyZAR Currency = "zar"
)
