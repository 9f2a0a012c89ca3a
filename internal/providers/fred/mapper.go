package fred

import "strings"

// seriesIDs maps friendly macro names to FRED series ids. Anything not in
// the table is treated as a literal series id.
var seriesIDs = map[string]string{
	"m1": "WM1NS", "m2": "WM2NS", "money supply": "WM2NS",
	"fed funds": "DFF", "fed rate": "DFF", "prime rate": "DPRIME",
	"us debt": "GFDEBTN", "debt": "GFDEBTN", "debt to gdp": "GFDEGDQ188S",
	"cpi": "CPIAUCSL", "inflation": "T10YIE", "pce": "PCEPI",
	"unemployment": "UNRATE", "nonfarm payrolls": "PAYEMS", "jobs": "PAYEMS",
	"initial claims": "ICSA",
	"gdp":            "GDP", "us gdp": "GDP", "real gdp": "GDPC1",
	"gdp growth": "A191RL1Q225SBEA",
	"housing starts": "HOUST", "home prices": "CSUSHPISA",
	"mortgage rate":       "MORTGAGE30US",
	"consumer confidence": "UMCSENT", "retail sales": "RSXFS",
	"industrial production": "INDPRO", "capacity utilization": "TCU",
}

// ResolveSeriesID turns a friendly macro name into a FRED series id.
func ResolveSeriesID(ticker string) string {
	query := strings.ToLower(strings.TrimSpace(ticker))
	if id, ok := seriesIDs[query]; ok {
		return id
	}
	return strings.ToUpper(strings.TrimSpace(ticker))
}
