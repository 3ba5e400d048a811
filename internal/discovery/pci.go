//go:build linux

package discovery

import (
	"regexp"
	"strings"
)

// The PCI class labels that identify display devices in lspci output
var displayClasses = []string{
	"vga compatible controller",
	"3d controller",
	"display controller",
}

// Matches the revision suffix that lspci appends to device descriptions
var revisionSuffix = regexp.MustCompile(`\s*\(rev [0-9a-fA-F]+\)\s*$`)

// Classifies the GPU vendor from a PCI device listing in lspci's default format.
// Only display-class lines are considered, and the first line that names a known vendor wins.
// Returns VendorUnknown and an empty model if no display-class line names a known vendor.
func ClassifyPCIListing(listing string) (Vendor, string) {
	for _, line := range strings.Split(listing, "\n") {

		// Skip anything that isn't a display device
		description, isDisplay := displayDescription(line)
		if !isDisplay {
			continue
		}

		// Test the description against each known vendor in turn
		lower := strings.ToLower(description)
		for _, vendor := range KnownVendors {
			if strings.Contains(lower, vendor.String()) {
				return vendor, revisionSuffix.ReplaceAllString(description, "")
			}
		}
	}

	return VendorUnknown, ""
}

// Extracts the device description from a display-class listing line
func displayDescription(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, class := range displayClasses {
		index := strings.Index(lower, class)
		if index == -1 {
			continue
		}

		// The description follows the class label and its colon separator
		rest := line[index+len(class):]
		rest = strings.TrimPrefix(strings.TrimSpace(rest), ":")
		return strings.TrimSpace(rest), true
	}

	return "", false
}
