package smarttext

// ukSpellings maps lowercased US spellings to their UK replacements.
// Matching is whole-word; the replacement is re-capitalised from the
// source word at apply time.
var ukSpellings = map[string]string{
	"aluminum":    "aluminium",
	"analyze":     "analyse",
	"analyzed":    "analysed",
	"authorize":   "authorise",
	"authorized":  "authorised",
	"behavior":    "behaviour",
	"center":      "centre",
	"color":       "colour",
	"colors":      "colours",
	"colored":     "coloured",
	"defense":     "defence",
	"energize":    "energise",
	"energized":   "energised",
	"favor":       "favour",
	"fiber":       "fibre",
	"galvanize":   "galvanise",
	"galvanized":  "galvanised",
	"gray":        "grey",
	"labor":       "labour",
	"liter":       "litre",
	"mold":        "mould",
	"molding":     "moulding",
	"neighbor":    "neighbour",
	"organize":    "organise",
	"organized":   "organised",
	"recognize":   "recognise",
	"recognized":  "recognised",
	"utilization": "utilisation",
	"utilize":     "utilise",
	"vapor":       "vapour",
}

// abbreviations maps lowercased electrical trade abbreviations to their
// canonical casing. A correction only fires when the typed casing differs
// from the canonical form.
var abbreviations = map[string]string{
	"afdd":  "AFDD",
	"coshh": "COSHH",
	"cpc":   "CPC",
	"eic":   "EIC",
	"eicr":  "EICR",
	"hse":   "HSE",
	"lsf":   "LSF",
	"mcb":   "MCB",
	"pat":   "PAT",
	"pme":   "PME",
	"ppe":   "PPE",
	"pvc":   "PVC",
	"rams":  "RAMS",
	"rcbo":  "RCBO",
	"rcd":   "RCD",
	"selv":  "SELV",
	"spd":   "SPD",
	"swa":   "SWA",
}
