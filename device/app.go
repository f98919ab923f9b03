package device

import (
	"context"
	"fmt"
)

// BOLOS dashboard command tuples. These are issued against whatever
// application is active, so they use the housekeeping class.
const (
	claBolos            = 0xb0
	insGetAppAndVersion = 0x01
	insQuitApp          = 0xa7

	claDashboard = 0xe0
	insOpenApp   = 0xd8
)

// AppAndVersion describes the application currently active on the device.
type AppAndVersion struct {
	Name    string
	Version string
	Flags   []byte
}

// GetAppAndVersion queries which application is active.
func GetAppAndVersion(ctx context.Context, t Transport) (*AppAndVersion, error) {
	data, err := exchange(ctx, t, APDU{CLA: claBolos, INS: insGetAppAndVersion})
	if err != nil {
		return nil, err
	}
	return parseAppAndVersion(data)
}

// parseAppAndVersion decodes the fixed response layout:
//
//	format(1) nameLen(1) name versionLen(1) version flagsLen(1) flags
//
// The leading format byte must be 1; anything else indicates a firmware
// the core does not understand.
func parseAppAndVersion(data []byte) (*AppAndVersion, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: empty app-and-version response", ErrResponseFormat)
	}
	if data[0] != 1 {
		return nil, fmt.Errorf("%w: app-and-version format byte %d", ErrResponseFormat, data[0])
	}
	data = data[1:]

	name, data, err := readLenPrefixed(data, "name")
	if err != nil {
		return nil, err
	}
	version, data, err := readLenPrefixed(data, "version")
	if err != nil {
		return nil, err
	}
	flags, _, err := readLenPrefixed(data, "flags")
	if err != nil {
		return nil, err
	}

	return &AppAndVersion{
		Name:    string(name),
		Version: string(version),
		Flags:   flags,
	}, nil
}

// readLenPrefixed consumes one length-prefixed field from data.
func readLenPrefixed(data []byte, field string) (value, rest []byte, err error) {
	if len(data) < 1 {
		return nil, nil, fmt.Errorf("%w: truncated before %s length", ErrResponseFormat, field)
	}
	n := int(data[0])
	if len(data) < 1+n {
		return nil, nil, fmt.Errorf("%w: truncated %s field", ErrResponseFormat, field)
	}
	return data[1 : 1+n], data[1+n:], nil
}

// QuitApp asks the device to return to the dashboard.
func QuitApp(ctx context.Context, t Transport) error {
	_, err := exchange(ctx, t, APDU{CLA: claBolos, INS: insQuitApp})
	return err
}

// OpenApp asks the dashboard to launch the named application. The device
// prompts the user; a rejection surfaces as ErrUserCancelled.
func OpenApp(ctx context.Context, t Transport, name string) error {
	_, err := exchange(ctx, t, APDU{CLA: claDashboard, INS: insOpenApp, Payload: []byte(name)})
	return err
}

// EnsureApp makes the named application active, quitting whatever else is
// running and launching it if needed. Returns ErrWrongApp when the device
// cannot be steered to the wanted application.
func EnsureApp(ctx context.Context, t Transport, name string) error {
	av, err := GetAppAndVersion(ctx, t)
	if err != nil {
		return err
	}
	if av.Name == name {
		return nil
	}

	log.Infof("active app is %q, switching to %q", av.Name, name)

	// From inside another app, quit to the dashboard first.
	if av.Name != "BOLOS" {
		if err := QuitApp(ctx, t); err != nil {
			return err
		}
	}
	if err := OpenApp(ctx, t, name); err != nil {
		return fmt.Errorf("%w: could not open %q: %w", ErrWrongApp, name, err)
	}
	return nil
}
