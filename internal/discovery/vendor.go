//go:build linux

package discovery

import "strings"

// The GPU vendor of the host, as classified from the PCI device listing
type Vendor int32

const (
	VendorUnknown Vendor = 0
	VendorIntel   Vendor = 1
	VendorNvidia  Vendor = 2
	VendorAMD     Vendor = 3
)

// The vendors that detection can positively identify, in the order they are tested against each listing line
var KnownVendors = []Vendor{VendorIntel, VendorNvidia, VendorAMD}

// Every vendor value, including the fallback
var AllVendors = []Vendor{VendorIntel, VendorNvidia, VendorAMD, VendorUnknown}

func (v Vendor) String() string {
	switch v {
	case VendorIntel:
		return "intel"
	case VendorNvidia:
		return "nvidia"
	case VendorAMD:
		return "amd"
	default:
		return "unknown"
	}
}

// Parses a vendor name case-insensitively, returning VendorUnknown for anything unrecognised
func ParseVendor(name string) Vendor {
	for _, vendor := range KnownVendors {
		if strings.EqualFold(strings.TrimSpace(name), vendor.String()) {
			return vendor
		}
	}

	return VendorUnknown
}

// Returns the PCI vendor code assigned to the vendor, or zero for VendorUnknown
func (v Vendor) PCIVendorID() uint16 {
	switch v {
	case VendorIntel:
		return 0x8086
	case VendorNvidia:
		return 0x10de
	case VendorAMD:
		return 0x1002
	default:
		return 0
	}
}

// Returns the lower case words that identify the vendor in graphics driver and device names
func (v Vendor) driverKeywords() []string {
	switch v {
	case VendorIntel:
		return []string{"intel", "anv"}
	case VendorNvidia:
		return []string{"nvidia"}
	case VendorAMD:
		return []string{"amd", "amdvlk", "radv", "radeon"}
	default:
		return nil
	}
}
