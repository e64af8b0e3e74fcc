package main

import (
	"net"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/jonathan/wpss-validators/internal/config"
	"golang.org/x/net/idna"
)

// reportBase replaces the installation directory prefix of local links.
const reportBase = "http://www.feedvalidator.org/"

// ResolveLink turns the command argument into an absolute link. Relative
// references are resolved against the file: URL of cwd; an empty argument
// yields the default feed.
func ResolveLink(arg, cwd string) string {
	if arg == "" {
		arg = config.DefaultFeedURL
	}

	base := dirURL(cwd)
	ref, err := url.Parse(arg)
	if err != nil {
		ref = &url.URL{Path: arg}
	}
	return base.ResolveReference(ref).String()
}

// TryEncodeIDNA converts the host of link to its ASCII form. The link is
// returned unchanged when it has no host or the host cannot be encoded.
func TryEncodeIDNA(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}

	host := u.Hostname()
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil || ascii == host {
		return link
	}

	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort(ascii, port)
	} else {
		u.Host = ascii
	}
	return u.String()
}

// BaseDir returns the file: URL of the directory holding executable,
// with a trailing slash.
func BaseDir(executable string) string {
	return dirURL(filepath.Dir(executable)).String()
}

// IsLocal reports whether link lies under baseDir.
func IsLocal(link, baseDir string) bool {
	return baseDir != "" && strings.HasPrefix(link, baseDir)
}

// ReportingBase maps a local link to the URL relative references in the
// document are resolved against.
func ReportingBase(link, baseDir string) string {
	return reportBase + strings.TrimPrefix(link, baseDir)
}

func dirURL(dir string) *url.URL {
	p := filepath.ToSlash(dir)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return &url.URL{Scheme: "file", Path: strings.TrimSuffix(p, "/") + "/"}
}
