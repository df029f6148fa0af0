package targeting

// countryNames maps ISO 3166-1 alpha-2 codes to French display names for
// the countries the directory actually carries. Unknown codes fall back to
// the raw code.
var countryNames = map[string]string{
	"AT": "Autriche",
	"BE": "Belgique",
	"CA": "Canada",
	"CH": "Suisse",
	"DE": "Allemagne",
	"DZ": "Algérie",
	"ES": "Espagne",
	"FR": "France",
	"GB": "Royaume-Uni",
	"IT": "Italie",
	"LU": "Luxembourg",
	"MA": "Maroc",
	"MC": "Monaco",
	"NL": "Pays-Bas",
	"PT": "Portugal",
	"SN": "Sénégal",
	"TN": "Tunisie",
	"US": "États-Unis",
}

func countryLabel(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}

// orgSizeLabels maps organisation size codes to their display bands.
var orgSizeLabels = map[string]string{
	"TPE": "TPE (1-9 salariés)",
	"PME": "PME (10-249 salariés)",
	"ETI": "ETI (250-4999 salariés)",
	"GE":  "Grande entreprise (5000+ salariés)",
}

func orgSizeLabel(code string) string {
	if label, ok := orgSizeLabels[code]; ok {
		return label
	}
	return code
}
