package catalog

import (
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

// Fingerprint returns a BLAKE2b-256 hex digest of the catalog contents.
// Two catalogs with the same tiles in the same order share a fingerprint,
// so stored runs can be matched to the catalog that produced them.
func Fingerprint(c *wfc.Catalog) string {
	var b strings.Builder
	for _, def := range c.Tiles() {
		b.WriteString(strconv.Quote(def.Name))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatBool(def.IsRoofTile))
		for _, dir := range wfc.AllDirections() {
			b.WriteByte(' ')
			b.WriteString(strconv.Quote(string(def.Socket(dir))))
		}
		b.WriteByte('\n')
	}

	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
