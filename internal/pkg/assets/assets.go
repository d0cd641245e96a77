// Package assets builds links to files the backend hosts: payment proofs,
// KYC documents and logos.
package assets

import (
	"net/url"
	"strings"
)

type Linker struct {
	base string
}

func NewLinker(baseURL string) *Linker {
	return &Linker{base: strings.TrimRight(baseURL, "/")}
}

// URL joins p onto the asset base. Absolute URLs and empty paths pass through.
func (l *Linker) URL(p string) string {
	if p == "" {
		return ""
	}
	if u, err := url.Parse(p); err == nil && u.IsAbs() {
		return p
	}
	if l == nil || l.base == "" {
		return "/" + strings.TrimLeft(p, "/")
	}
	return l.base + "/" + strings.TrimLeft(p, "/")
}
