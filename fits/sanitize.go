package fits

import (
	"regexp"

	"github.com/robert-malhotra/go-acalib/nddata"
)

// legacyDistortion matches the obsolete PC00i00j keywords.
var legacyDistortion = regexp.MustCompile(`^PC00[0-9]`)

// Sanitize removes legacy PC00i00j keywords from m. They must be gone before
// a WCS is built from the metadata. It returns the removed keys.
func Sanitize(m *nddata.Metadata) []string {
	var removed []string
	for _, k := range m.Keys() {
		if legacyDistortion.MatchString(k) {
			removed = append(removed, k)
		}
	}
	for _, k := range removed {
		m.Delete(k)
	}
	return removed
}
