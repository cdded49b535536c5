package entity

var (
	Indices = []Instrument{
		{Symbol: "^GSPC", Name: "S&P 500"},
		{Symbol: "^DJI", Name: "Dow Jones"},
		{Symbol: "^IXIC", Name: "NASDAQ"},
		{Symbol: "^RUT", Name: "Russell 2000"},
	}

	Futures = []Instrument{
		{Symbol: "ES=F", Name: "S&P 500 Futures"},
		{Symbol: "NQ=F", Name: "NASDAQ Futures"},
		{Symbol: "YM=F", Name: "Dow Futures"},
		{Symbol: "RTY=F", Name: "Russell Futures"},
	}

	SectorETFs = []Instrument{
		{Symbol: "XLK", Name: "Technology (XLK)"},
		{Symbol: "XLF", Name: "Financials (XLF)"},
		{Symbol: "XLE", Name: "Energy (XLE)"},
		{Symbol: "XLV", Name: "Healthcare (XLV)"},
		{Symbol: "XLY", Name: "Consumer Disc. (XLY)"},
		{Symbol: "XLP", Name: "Consumer Staples (XLP)"},
		{Symbol: "XLI", Name: "Industrials (XLI)"},
		{Symbol: "XLU", Name: "Utilities (XLU)"},
	}

	ExtendedSectorETFs = []Instrument{
		{Symbol: "XLK", Name: "Technology", Category: "sector"},
		{Symbol: "XLF", Name: "Financials", Category: "sector"},
		{Symbol: "XLE", Name: "Energy", Category: "sector"},
		{Symbol: "XLV", Name: "Healthcare", Category: "sector"},
		{Symbol: "XLY", Name: "Consumer Discretionary", Category: "sector"},
		{Symbol: "XLP", Name: "Consumer Staples", Category: "sector"},
		{Symbol: "XLI", Name: "Industrials", Category: "sector"},
		{Symbol: "XLU", Name: "Utilities", Category: "sector"},
		{Symbol: "XLB", Name: "Materials", Category: "sector"},
		{Symbol: "XLRE", Name: "Real Estate", Category: "sector"},
		{Symbol: "XLC", Name: "Communication Services", Category: "sector"},
	}

	Commodities = []Instrument{
		{Symbol: "GC=F", Name: "Gold (GC=F)"},
		{Symbol: "CL=F", Name: "Crude Oil (CL=F)"},
		{Symbol: "NG=F", Name: "Natural Gas (NG=F)"},
		{Symbol: "SI=F", Name: "Silver (SI=F)"},
	}

	ExtendedCommodities = []Instrument{
		{Symbol: "GC=F", Name: "Gold", Category: "metals"},
		{Symbol: "SI=F", Name: "Silver", Category: "metals"},
		{Symbol: "HG=F", Name: "Copper", Category: "metals"},
		{Symbol: "PL=F", Name: "Platinum", Category: "metals"},
		{Symbol: "CL=F", Name: "Crude Oil", Category: "energy"},
		{Symbol: "NG=F", Name: "Natural Gas", Category: "energy"},
		{Symbol: "RB=F", Name: "Gasoline", Category: "energy"},
		{Symbol: "HO=F", Name: "Heating Oil", Category: "energy"},
		{Symbol: "ZC=F", Name: "Corn", Category: "agriculture"},
		{Symbol: "ZS=F", Name: "Soybeans", Category: "agriculture"},
		{Symbol: "ZW=F", Name: "Wheat", Category: "agriculture"},
		{Symbol: "KC=F", Name: "Coffee", Category: "agriculture"},
		{Symbol: "CT=F", Name: "Cotton", Category: "agriculture"},
	}

	Currencies = []Instrument{
		{Symbol: "EURUSD=X", Name: "EUR/USD"},
		{Symbol: "GBPUSD=X", Name: "GBP/USD"},
		{Symbol: "USDJPY=X", Name: "USD/JPY"},
		{Symbol: "AUDUSD=X", Name: "AUD/USD"},
	}

	ExtendedCurrencies = []Instrument{
		{Symbol: "EURUSD=X", Name: "EUR/USD", Category: "majors"},
		{Symbol: "GBPUSD=X", Name: "GBP/USD", Category: "majors"},
		{Symbol: "USDJPY=X", Name: "USD/JPY", Category: "majors"},
		{Symbol: "USDCHF=X", Name: "USD/CHF", Category: "majors"},
		{Symbol: "AUDUSD=X", Name: "AUD/USD", Category: "majors"},
		{Symbol: "USDCAD=X", Name: "USD/CAD", Category: "majors"},
		{Symbol: "NZDUSD=X", Name: "NZD/USD", Category: "majors"},
		{Symbol: "EURGBP=X", Name: "EUR/GBP", Category: "crosses"},
		{Symbol: "EURJPY=X", Name: "EUR/JPY", Category: "crosses"},
		{Symbol: "GBPJPY=X", Name: "GBP/JPY", Category: "crosses"},
		{Symbol: "USDCNH=X", Name: "USD/CNH", Category: "emerging"},
		{Symbol: "USDINR=X", Name: "USD/INR", Category: "emerging"},
	}
)
