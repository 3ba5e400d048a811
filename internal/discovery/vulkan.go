//go:build linux

package discovery

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/exp/slices"
)

// A physical device reported by `vulkaninfo --summary`
type VulkanDevice struct {
	Name     string
	Driver   string
	Type     string
	VendorID uint16
}

// Matches the per-device headings ("GPU0:", "GPU1:") in vulkaninfo summary output
var vulkanDeviceHeading = regexp.MustCompile(`^GPU\d+:?$`)

// Parses the device list from `vulkaninfo --summary` output
func ParseVulkanSummary(output string) []VulkanDevice {
	devices := []VulkanDevice{}
	var current *VulkanDevice

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)

		// Start a new device at each heading
		if vulkanDeviceHeading.MatchString(line) {
			devices = append(devices, VulkanDevice{})
			current = &devices[len(devices)-1]
			continue
		}

		// Properties are only meaningful inside a device section
		key, value, found := strings.Cut(line, "=")
		if current == nil || !found {
			continue
		}

		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "deviceName":
			current.Name = value
		case "driverName":
			current.Driver = value
		case "deviceType":
			current.Type = value
		case "vendorID":
			if id, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(value), "0x"), 16, 16); err == nil {
				current.VendorID = uint16(id)
			}
		}
	}

	return devices
}

// Returns true for devices backed by hardware rather than a software rasteriser such as llvmpipe
func (d VulkanDevice) IsHardware() bool {
	return d.Name != "" && !strings.HasSuffix(d.Type, "_CPU")
}

// Returns true if the device belongs to the supplied vendor
func (d VulkanDevice) MatchesVendor(vendor Vendor) bool {
	if vendor == VendorUnknown {
		return false
	}

	if d.VendorID != 0 && d.VendorID == vendor.PCIVendorID() {
		return true
	}

	// Keywords match whole words only ("anv" must not match "canvas")
	words := strings.FieldsFunc(strings.ToLower(d.Name+" "+d.Driver), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, keyword := range vendor.driverKeywords() {
		if slices.Contains(words, keyword) {
			return true
		}
	}

	return false
}

// Reports whether any hardware device is present, and whether any hardware device matches the vendor
func VulkanStatus(devices []VulkanDevice, vendor Vendor) (available bool, vendorMatch bool) {
	for _, device := range devices {
		if !device.IsHardware() {
			continue
		}

		available = true
		if device.MatchesVendor(vendor) {
			vendorMatch = true
		}
	}

	return available, vendorMatch
}

// Extracts the driver description from `vainfo` output, returning an empty string if none is reported
func ParseVAInfoDriver(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if _, driver, found := strings.Cut(line, "Driver version:"); found {
			return strings.TrimSpace(driver)
		}
	}

	return ""
}
