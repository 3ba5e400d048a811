//go:build linux

package discovery

import (
	"fmt"

	"github.com/jaypipes/ghw"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

const bytesPerMB = 1024 * 1024

// Returns the memory currently available to new processes, in megabytes
func hostFreeMemoryMB() (uint64, error) {
	stats, err := mem.VirtualMemory()
	if err != nil {
		return 0, errors.Wrap(err, "failed to query memory statistics")
	}

	return stats.Available / bytesPerMB, nil
}

// Returns the version string of the running kernel
func hostKernelVersion() (string, error) {
	version, err := host.KernelVersion()
	if err != nil {
		return "", errors.Wrap(err, "failed to query the kernel version")
	}

	return version, nil
}

// Builds an lspci-style listing of the display devices known to sysfs, for hosts where lspci cannot run
func sysfsDisplayListing() (string, error) {
	info, err := ghw.GPU()
	if err != nil {
		return "", errors.Wrap(err, "failed to enumerate graphics cards through sysfs")
	}

	listing := ""
	for _, card := range info.GraphicsCards {
		if card.DeviceInfo == nil {
			continue
		}

		// Resolve the vendor and product names where the PCI database knows them
		vendor, product := "", ""
		if card.DeviceInfo.Vendor != nil {
			vendor = card.DeviceInfo.Vendor.Name
		}
		if card.DeviceInfo.Product != nil {
			product = card.DeviceInfo.Product.Name
		}

		listing += fmt.Sprintf("%s Display controller: %s %s\n", card.Address, vendor, product)
	}

	return listing, nil
}
