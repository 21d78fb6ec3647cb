package catalog

import (
	"net/url"
	"strings"
)

// ResolveImageRef resolves an image reference against the backend base URL.
// Absolute references pass through unchanged; relative ones are joined to
// the base. An empty reference stays empty.
func ResolveImageRef(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	base = strings.TrimRight(base, "/")
	if base == "" {
		return ref
	}
	return base + "/" + strings.TrimLeft(ref, "/")
}

// ResolveImages resolves every image reference of a product copy against the base
func ResolveImages(p Product, base string) Product {
	if len(p.Images) == 0 {
		return p
	}
	resolved := make([]string, len(p.Images))
	for i, ref := range p.Images {
		resolved[i] = ResolveImageRef(base, ref)
	}
	p.Images = resolved
	return p
}
