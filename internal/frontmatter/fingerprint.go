package frontmatter

import "github.com/inful/mdfp"

// volatileKeys do not count towards a note's content fingerprint: they
// change without the note itself changing.
var volatileKeys = map[string]bool{
	mdfp.FingerprintField: true,
	"lastmod":             true,
	"modified":            true,
	"aliases":             true,
}

// Fingerprint returns a stable content fingerprint for a note's fields and
// body. Fields are serialized with sorted keys and LF newlines, and a single
// trailing newline is trimmed before hashing.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if !volatileKeys[k] {
			hashed[k] = v
		}
	}

	fm, err := canonicalYAML(hashed)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}
