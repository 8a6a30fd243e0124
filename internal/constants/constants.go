// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort        = "8080"
	DefaultDBFileName  = "publications.db"
	DefaultAppDirName  = "bookwall"
	DefaultFeedCount   = 25
	DefaultConcurrency = 8
	DefaultHTTPTimeout = 30 * time.Second
	DefaultRetryCount  = 3
	DefaultRetryBase   = 1 * time.Second
)

// Upstream endpoints
const (
	DefaultCatalogURL = "http://www.worldcat.org/webservices/catalog/content"
	DefaultXRefURL    = "http://xisbn.worldcat.org/webservices/xid/oclcnum"
	DefaultDetailURL  = "https://bucknell.worldcat.org/oclc"
	DefaultIPEchoURL  = "http://httpbin.org/ip"
)

// Cover image candidate suffixes. The detail page serves a medium
// thumbnail; the hosts also carry larger and smaller renditions at
// sibling URLs.
const (
	CoverSuffixDefault = "_140.jpg"
	CoverSuffixLarge   = "_400.jpg"
	CoverSuffixSmall   = "_70.jpg"
)

// Cover brightness acceptance bounds, inclusive. Means outside this
// range indicate a near-solid placeholder served by the image host.
const (
	CoverMinBrightness = 20
	CoverMaxBrightness = 230
)

// Placeholder canvas
const (
	PlaceholderWidth  = 800
	PlaceholderHeight = 1200
)

// MIME Types
const (
	MimeTypePNG  = "image/png"
	MimeTypeJSON = "application/json"
)
