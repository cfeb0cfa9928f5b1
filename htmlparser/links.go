package htmlparser

import "net/url"

// NormalizeLinks resolves raw links against baseURL, strips fragments and
// removes duplicates while preserving first-seen order. Unparseable links
// are dropped. The operation is idempotent: normalizing an already
// normalized list is a no-op.
func NormalizeLinks(baseURL string, links []string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]struct{}, len(links))
	normalized := make([]string, 0, len(links))
	for _, link := range links {
		ref, err := url.Parse(link)
		if err != nil {
			continue
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		ref.Fragment = ""
		abs := ref.String()
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		normalized = append(normalized, abs)
	}
	return normalized
}
