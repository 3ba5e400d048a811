//go:build linux

package profile

// The registry value types we emit
type ValueKind int32

const (
	StringValue ValueKind = 0
	DWordValue  ValueKind = 1
)

// Represents a single registry value to be imported into the prefix
type RegistryEntry struct {

	// The full path of the key that holds the value (e.g. HKEY_CURRENT_USER\Software\Wine\Direct3D)
	Key string

	// The name of the value within the key
	Name string

	// The type of the value
	Kind ValueKind

	// The data for StringValue entries
	String string

	// The data for DWordValue entries
	DWord uint32
}

// Creates a string registry entry
func stringEntry(key string, name string, value string) RegistryEntry {
	return RegistryEntry{Key: key, Name: name, Kind: StringValue, String: value}
}

// Creates a DWORD registry entry
func dwordEntry(key string, name string, value uint32) RegistryEntry {
	return RegistryEntry{Key: key, Name: name, Kind: DWordValue, DWord: value}
}

// The registry keys the profiles write to
const (
	keyDirectSound   = `HKEY_CURRENT_USER\Software\Wine\DirectSound`
	keyDirectInput   = `HKEY_CURRENT_USER\Software\Wine\DirectInput`
	keyX11Driver     = `HKEY_CURRENT_USER\Software\Wine\X11 Driver`
	keyWaylandDriver = `HKEY_CURRENT_USER\Software\Wine\Wayland Driver`
	keyDirect3D      = `HKEY_CURRENT_USER\Software\Wine\Direct3D`
)

// The key that the cleanup helper exports, wipes and re-imports when compacting the registry
const WineSettingsKey = `HKEY_CURRENT_USER\Software\Wine`
