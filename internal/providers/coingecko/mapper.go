package coingecko

import "strings"

// coinIDs maps common tickers and names to CoinGecko coin ids. Unknown
// queries pass through lowercased, which handles anything already given as
// a coin id.
var coinIDs = map[string]string{
	"btc": "bitcoin", "eth": "ethereum", "usdt": "tether", "bnb": "binancecoin",
	"xrp": "ripple", "usdc": "usd-coin", "sol": "solana", "ada": "cardano",
	"doge": "dogecoin", "trx": "tron", "dot": "polkadot", "matic": "matic-network",
	"ltc": "litecoin", "shib": "shiba-inu", "avax": "avalanche-2", "link": "chainlink",
	"atom": "cosmos", "uni": "uniswap", "xlm": "stellar", "xmr": "monero",
	"etc": "ethereum-classic", "bch": "bitcoin-cash", "near": "near", "arb": "arbitrum",
	"op": "optimism", "apt": "aptos", "fil": "filecoin", "algo": "algorand",
	"vet": "vechain", "ftm": "fantom", "sand": "the-sandbox", "mana": "decentraland",
	"aave": "aave", "mkr": "maker", "pepe": "pepe", "bonk": "bonk",
	"bitcoin": "bitcoin", "ethereum": "ethereum", "solana": "solana",
	"cardano": "cardano", "dogecoin": "dogecoin", "ripple": "ripple",
}

// ResolveCoinID turns a user-facing ticker into a CoinGecko coin id.
func ResolveCoinID(ticker string) string {
	query := strings.ToLower(strings.TrimSpace(ticker))
	if id, ok := coinIDs[query]; ok {
		return id
	}
	return query
}

// SimplePriceResponse is one entry of the simple/price endpoint.
type SimplePriceResponse struct {
	USD          float64 `json:"usd"`
	USD24hVol    float64 `json:"usd_24h_vol,omitempty"`
	USD24hChange float64 `json:"usd_24h_change,omitempty"`
	USDMarketCap float64 `json:"usd_market_cap,omitempty"`
}

// MarketChartResponse is the coins/{id}/market_chart payload. Entries are
// [unix-millis, value] pairs.
type MarketChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}
