package catalog

import "strings"

const thumbsPrefix = "thumbs/"

// NormalizePath canonicalizes a raw catalog path: both slash styles are
// separators, segments are trimmed, empty segments dropped and the first
// segment (the top-level category) uppercased. Blank input yields "".
func NormalizePath(raw string) string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	if len(segments) == 0 {
		return ""
	}

	segments[0] = strings.ToUpper(segments[0])
	return strings.Join(segments, "/")
}

// NormalizeThumbnail rewrites a relative thumbnail reference to an absolute
// site path under /thumbs/. References that are already absolute (site-root
// paths or URLs) are returned unchanged.
func NormalizeThumbnail(raw string) string {
	ref := strings.TrimSpace(raw)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	ref = strings.ReplaceAll(ref, "\\", "/")
	if strings.HasPrefix(ref, "/") {
		if strings.Trim(ref, "/") == "" {
			return ""
		}
		return ref
	}
	for strings.HasPrefix(ref, "./") {
		ref = strings.TrimLeft(strings.TrimPrefix(ref, "./"), "/")
	}
	if ref == "" || ref == "." {
		return ""
	}
	if !strings.HasPrefix(ref, thumbsPrefix) {
		ref = thumbsPrefix + ref
	}
	return "/" + ref
}

func splitPath(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// ancestorPaths returns every proper prefix of a normalized path.
func ancestorPaths(p string) []string {
	segments := splitPath(p)
	if len(segments) < 2 {
		return nil
	}
	out := make([]string, 0, len(segments)-1)
	for i := 1; i < len(segments); i++ {
		out = append(out, strings.Join(segments[:i], "/"))
	}
	return out
}
