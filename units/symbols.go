package units

// symbol describes a recognized unit name.
type symbol struct {
	// canonical is the name stored in a Term. Aliases share it.
	canonical  string
	prefixable bool
}

var symbols = map[string]symbol{
	// SI base and derived units.
	"m":   {"m", true},
	"g":   {"g", true},
	"s":   {"s", true},
	"rad": {"rad", true},
	"sr":  {"sr", true},
	"K":   {"K", true},
	"A":   {"A", true},
	"mol": {"mol", true},
	"cd":  {"cd", true},
	"Hz":  {"Hz", true},
	"J":   {"J", true},
	"W":   {"W", true},
	"V":   {"V", true},
	"N":   {"N", true},
	"Pa":  {"Pa", true},
	"C":   {"C", true},
	"Ohm": {"Ohm", true},
	"S":   {"S", true},
	"F":   {"F", true},
	"Wb":  {"Wb", true},
	"T":   {"T", true},
	"H":   {"H", true},
	"lm":  {"lm", true},
	"lx":  {"lx", true},

	// Additional units from the FITS standard.
	"deg":      {"deg", false},
	"arcmin":   {"arcmin", false},
	"arcsec":   {"arcsec", true},
	"mas":      {"mas", false},
	"min":      {"min", false},
	"h":        {"h", false},
	"d":        {"d", false},
	"a":        {"yr", true},
	"yr":       {"yr", true},
	"eV":       {"eV", true},
	"erg":      {"erg", false},
	"Ry":       {"Ry", false},
	"solMass":  {"solMass", false},
	"u":        {"u", false},
	"solLum":   {"solLum", false},
	"Angstrom": {"Angstrom", false},
	"solRad":   {"solRad", false},
	"AU":       {"AU", false},
	"lyr":      {"lyr", false},
	"pc":       {"pc", true},
	"count":    {"count", false},
	"ct":       {"count", false},
	"photon":   {"photon", false},
	"ph":       {"photon", false},
	"Jy":       {"Jy", true},
	"mag":      {"mag", true},
	"R":        {"R", true},
	"G":        {"G", true},
	"barn":     {"barn", true},
	"D":        {"D", true},
	"Sun":      {"Sun", false},
	"pixel":    {"pixel", false},
	"pix":      {"pixel", false},
	"voxel":    {"voxel", false},
	"chan":     {"chan", false},
	"bin":      {"bin", false},
	"beam":     {"beam", false},
	"bit":      {"bit", true},
	"byte":     {"byte", true},
	"adu":      {"adu", false},
	"dyn":      {"dyn", false},
	"Ba":       {"Ba", false},
	"Gauss":    {"G", true},
}

// prefixes maps SI prefix symbols to their scale. Two-letter prefixes are
// tried before one-letter ones.
var prefixes = map[string]float64{
	"da": 1e1,
	"y":  1e-24,
	"z":  1e-21,
	"a":  1e-18,
	"f":  1e-15,
	"p":  1e-12,
	"n":  1e-9,
	"u":  1e-6,
	"m":  1e-3,
	"c":  1e-2,
	"d":  1e-1,
	"h":  1e2,
	"k":  1e3,
	"M":  1e6,
	"G":  1e9,
	"T":  1e12,
	"P":  1e15,
	"E":  1e18,
	"Z":  1e21,
	"Y":  1e24,
}

// lookup resolves a unit name, trying an exact match before splitting off
// an SI prefix.
func lookup(name string) (Unit, bool) {
	if sym, ok := symbols[name]; ok {
		return Unit{scale: 1, terms: []Term{{Symbol: sym.canonical, Power: 1}}}, true
	}
	for _, n := range []int{2, 1} {
		if len(name) <= n {
			continue
		}
		scale, ok := prefixes[name[:n]]
		if !ok {
			continue
		}
		sym, ok := symbols[name[n:]]
		if !ok || !sym.prefixable {
			continue
		}
		return Unit{scale: scale, terms: []Term{{Symbol: sym.canonical, Power: 1}}}, true
	}
	return Unit{}, false
}
