package media

import "strings"

// URLResolver turns stored image paths into public URLs
type URLResolver struct {
	base string
}

// NewURLResolver creates a resolver rooted at the public storage base URL
func NewURLResolver(base string) *URLResolver {
	return &URLResolver{base: strings.TrimRight(base, "/")}
}

// URL returns path unchanged when it already is an absolute http(s) URL
func (r *URLResolver) URL(path string) string {
	if IsRemote(path) {
		return path
	}
	return r.base + "/" + strings.TrimLeft(path, "/")
}

// IsRemote reports whether path points outside the blob store
func IsRemote(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
