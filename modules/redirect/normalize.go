// Package redirect maps legacy WordPress upload URLs to the current location
// of the matching asset in the media library.
package redirect

import (
	"regexp"
	"strings"
)

// thumbnailSizePattern matches generated thumbnail fragments such as
// "-300x200": a dash, then a width and height of 2-4 digits joined by "x".
var thumbnailSizePattern = regexp.MustCompile(`-\d{2,4}x\d{2,4}`)

// SearchKey reduces an uploaded file's name to the term used to look the
// asset up in the media library: the final extension segment is dropped and
// every thumbnail-size fragment is removed. Nothing else changes, so keys
// line up with asset titles produced by the importer.
//
//	photo-300x200.jpg -> photo
//	report.final.pdf  -> report.final
//	image.png         -> image
func SearchKey(fileName string) string {
	base := fileName
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	return thumbnailSizePattern.ReplaceAllString(base, "")
}
