package discovery

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
)

// ComputeHash computes a deterministic hash over a set of discovered files.
// The hash covers relative paths, the page/asset classification and, for
// loaded files, a content hash. It changes whenever the build inputs do.
func ComputeHash(files []File) string {
	if len(files) == 0 {
		h := sha256.Sum256([]byte("empty-content-set"))
		return hex.EncodeToString(h[:])
	}

	sorted := slices.Clone(files)
	slices.SortFunc(sorted, func(a, b File) int { return strings.Compare(a.RelativePath, b.RelativePath) })

	h := sha256.New()
	for _, f := range sorted {
		contentHash := ""
		if len(f.Content) > 0 {
			sum := sha256.Sum256(f.Content)
			contentHash = hex.EncodeToString(sum[:])
		}
		fmt.Fprintf(h, "%s|%t|%s\n", f.RelativePath, f.IsPage, contentHash)
	}
	return hex.EncodeToString(h.Sum(nil))
}
