package refdata

// SectorMatrixMap and RegionMatrixMap are the matrix-selection override
// tables from spec.md §4.B/§4.F ("assign matrix name per issuer from the
// override tables"), grounded on the original system's run_irc.py
// SECTOR_MATRIX_MAP / REGION_MATRIX_MAP: a raw sector or region string
// rarely matches a registry matrix name outright (e.g. "bank" or "EU" vs.
// the registry's "financials"/"europe" keys), so each is normalised to a
// matrix name here before the registry is consulted. Keys are lower-case;
// callers pass already-lower-cased sector/region strings (internal/dataprep
// normalises both at preparation time).
var SectorMatrixMap = map[string]string{
	"financial":  "financials",
	"financials": "financials",
	"bank":       "financials",
	"insurance":  "financials",
	"sovereign":  "sovereign",
	"government": "sovereign",
}

var RegionMatrixMap = map[string]string{
	"us":    "global",
	"eu":    "europe",
	"em":    "emerging_markets",
	"asia":  "global",
	"latam": "emerging_markets",
}

// resolveMatrixName maps a raw sector/region string to a matrix name via
// the override table, falling back to the raw string itself so a value
// that already names a registry matrix directly (e.g. sector="sovereign")
// still resolves.
func resolveMatrixName(raw string, overrides map[string]string) (string, bool) {
	if raw == "" {
		return "", false
	}
	if name, ok := overrides[raw]; ok {
		return name, true
	}
	return raw, true
}
