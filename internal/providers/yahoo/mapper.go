package yahoo

import "strings"

// Symbol maps translating friendly names to Yahoo tickers, one per asset
// class. Unknown names fall through to sensible per-class defaults.

var commoditySymbols = map[string]string{
	"gold": "GC=F", "silver": "SI=F", "platinum": "PL=F", "palladium": "PA=F",
	"oil": "CL=F", "crude": "CL=F", "wti": "CL=F", "brent": "BZ=F",
	"natural gas": "NG=F", "gas": "NG=F", "natgas": "NG=F",
	"corn": "ZC=F", "wheat": "ZW=F", "soybeans": "ZS=F",
	"coffee": "KC=F", "sugar": "SB=F", "cotton": "CT=F", "copper": "HG=F",
}

var forexSymbols = map[string]string{
	"eurusd": "EURUSD=X", "eur": "EURUSD=X", "euro": "EURUSD=X",
	"gbpusd": "GBPUSD=X", "gbp": "GBPUSD=X", "pound": "GBPUSD=X",
	"usdjpy": "USDJPY=X", "jpy": "USDJPY=X", "yen": "USDJPY=X",
	"usdchf": "USDCHF=X", "chf": "USDCHF=X",
	"audusd": "AUDUSD=X", "aud": "AUDUSD=X",
	"usdcad": "USDCAD=X", "cad": "USDCAD=X",
}

var indexSymbols = map[string]string{
	"spy": "SPY", "sp500": "^GSPC", "s&p": "^GSPC", "sp": "^GSPC",
	"dow": "^DJI", "djia": "^DJI", "nasdaq": "^IXIC", "qqq": "QQQ",
	"russell": "^RUT", "iwm": "IWM", "vix": "^VIX",
}

var treasurySymbols = map[string]string{
	"2y": "^IRX", "5y": "^FVX", "10y": "^TNX", "30y": "^TYX",
	"3m": "^IRX", "6m": "^IRX",
}

// ResolveSymbol translates a user-facing ticker into the Yahoo symbol for
// its asset class. Anything already carrying Yahoo punctuation (=F, =X, ^)
// passes through uppercased.
func ResolveSymbol(assetType, ticker string) string {
	query := strings.ToLower(strings.TrimSpace(ticker))
	if strings.ContainsAny(query, "=^") {
		return strings.ToUpper(query)
	}

	switch assetType {
	case "commodity":
		if symbol, ok := commoditySymbols[query]; ok {
			return symbol
		}
	case "forex":
		if symbol, ok := forexSymbols[query]; ok {
			return symbol
		}
		return strings.ToUpper(query) + "=X"
	case "index":
		if symbol, ok := indexSymbols[query]; ok {
			return symbol
		}
	case "treasury":
		if symbol, ok := treasurySymbols[query]; ok {
			return symbol
		}
		return "^TNX"
	}
	return strings.ToUpper(query)
}

// DisplayName recovers a friendly name for a resolved symbol, falling back
// to the ticker itself.
func DisplayName(assetType, ticker string) string {
	query := strings.ToLower(strings.TrimSpace(ticker))
	var table map[string]string
	switch assetType {
	case "commodity":
		table = commoditySymbols
	case "forex":
		table = forexSymbols
	case "index":
		table = indexSymbols
	case "treasury":
		table = treasurySymbols
	}
	if table != nil {
		if _, ok := table[query]; ok {
			return capitalize(query)
		}
	}
	return strings.ToUpper(query)
}

func capitalize(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ChartResponse mirrors the v8 chart endpoint payload, reduced to the
// fields the client reads.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ChartResult struct {
	Meta struct {
		Currency             string  `json:"currency"`
		Symbol               string  `json:"symbol"`
		ExchangeName         string  `json:"exchangeName"`
		RegularMarketPrice   float64 `json:"regularMarketPrice"`
		RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
		RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close  []*float64 `json:"close"`
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}
