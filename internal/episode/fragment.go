// Package episode orders synthesized fragments and merges them into one
// audio artifact per document.
package episode

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vjovkovs/ttscast/internal/util"
)

// Fragment is one synthesized audio file, positioned by its chunk index and
// sub-split index. Sorting on the indices (not the filename) keeps part 10
// after part 2.
type Fragment struct {
	Path  string
	Chunk int // 1-based planner chunk index
	Sub   int // 1-based sub-split index within the chunk
}

// Sort orders fragments by (chunk, sub) ascending, reconstructing document
// order.
func Sort(frags []Fragment) {
	sort.Slice(frags, func(i, j int) bool {
		if frags[i].Chunk != frags[j].Chunk {
			return frags[i].Chunk < frags[j].Chunk
		}
		return frags[i].Sub < frags[j].Sub
	})
}

// BaseName derives the deterministic artifact stem from an ISO date and a
// title: "2024-03-01" + "My Title" -> "20240301_my-title".
func BaseName(isoDate, title string) string {
	return strings.ReplaceAll(isoDate, "-", "") + "_" + util.Slugify(title)
}

// PartName names the fragment for one rendered unit.
func PartName(base, ext string, chunkIdx, subIdx int) string {
	return fmt.Sprintf("%s_part%d_%d.%s", base, chunkIdx, subIdx, ext)
}

// FullName names the merged episode.
func FullName(base, ext string) string {
	return fmt.Sprintf("%s_full.%s", base, ext)
}

// SingleName names the artifact when a document renders to exactly one unit.
func SingleName(base, ext string) string {
	return base + "." + ext
}
