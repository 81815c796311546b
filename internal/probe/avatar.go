package probe

import (
	"fmt"
	"os"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/anityu45/footprintscan/internal/model"
)

// gpsTagNames are the EXIF tags that disclose where an image was taken.
// Any one of them is enough to place the device.
var gpsTagNames = map[string]bool{
	"GPSLatitude":     true,
	"GPSLongitude":    true,
	"GPSLatitudeRef":  true,
	"GPSLongitudeRef": true,
}

// imageLocationSignals extracts EXIF metadata from raw image bytes and
// returns identity signals for location disclosures. Images without EXIF
// blocks (the common case for re-encoded avatars) yield nothing.
func imageLocationSignals(data []byte, source string) []model.Signal {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	var coords []string
	for _, entry := range entries {
		if gpsTagNames[entry.TagName] {
			coords = append(coords, entry.TagName+": "+entry.Formatted)
		}
	}
	if len(coords) == 0 {
		return nil
	}

	return []model.Signal{{
		Source:      source,
		Present:     true,
		Description: "avatar image contains GPS coordinates (" + strings.Join(coords, ", ") + ")",
		Category:    model.CategoryIdentity,
		Severity:    model.SeverityHigh,
	}}
}

// InspectImageFile reads a local image and reports every EXIF entry it
// carries as identity signals, with GPS tags escalated to High severity.
// It backs the standalone image-inspection command and is independent of
// any network probe.
func InspectImageFile(path string, maxSize int64) ([]model.Signal, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("inspect image: %w", err)
	}
	if info.Size() > maxSize {
		return nil, fmt.Errorf("inspect image: %s exceeds %d bytes", path, maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inspect image: %w", err)
	}

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		// No EXIF block is a clean result, not an error.
		return nil, nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil, fmt.Errorf("inspect image: %w", err)
	}

	signals := make([]model.Signal, 0, len(entries))
	for _, entry := range entries {
		sig := model.Signal{
			Source:      "image",
			Present:     true,
			Description: entry.TagName + ": " + entry.Formatted,
			Category:    model.CategoryIdentity,
		}
		if gpsTagNames[entry.TagName] {
			sig.Severity = model.SeverityHigh
		}
		signals = append(signals, sig)
	}
	return signals, nil
}
