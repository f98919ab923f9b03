package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAppAndVersion(t *testing.T) {
	transport := &scriptTransport{handler: func(cmd APDU) ([]byte, error) {
		require.Equal(t, byte(claBolos), cmd.CLA)
		require.Equal(t, byte(insGetAppAndVersion), cmd.INS)
		return appResponse("Karlsen", "1.0.3"), nil
	}}

	av, err := GetAppAndVersion(context.Background(), transport)
	require.NoError(t, err)

	assert.Equal(t, "Karlsen", av.Name)
	assert.Equal(t, "1.0.3", av.Version)
	assert.Equal(t, []byte{0x00}, av.Flags)
}

func TestParseAppAndVersionBadFormat(t *testing.T) {
	_, err := parseAppAndVersion([]byte{2, 1, 'A', 1, '1', 0})
	assert.ErrorIs(t, err, ErrResponseFormat)
}

func TestParseAppAndVersionTruncated(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":             {},
		"name length only":  {1, 5},
		"truncated name":    {1, 5, 'K', 'a'},
		"missing version":   {1, 1, 'K'},
		"truncated version": {1, 1, 'K', 3, '1'},
		"missing flags":     {1, 1, 'K', 1, '1'},
	} {
		_, err := parseAppAndVersion(data)
		assert.ErrorIs(t, err, ErrResponseFormat, name)
	}
}

func TestEnsureAppAlreadyActive(t *testing.T) {
	transport := &scriptTransport{handler: func(cmd APDU) ([]byte, error) {
		return appResponse("Karlsen", "1.0.3"), nil
	}}

	require.NoError(t, EnsureApp(context.Background(), transport, "Karlsen"))
	assert.Len(t, transport.commands(), 1)
}

func TestEnsureAppFromDashboard(t *testing.T) {
	transport := &scriptTransport{handler: func(cmd APDU) ([]byte, error) {
		if cmd.CLA == claBolos && cmd.INS == insGetAppAndVersion {
			return appResponse("BOLOS", "2.1.0"), nil
		}
		return ok(), nil
	}}

	require.NoError(t, EnsureApp(context.Background(), transport, "Karlsen"))

	cmds := transport.commands()
	// Dashboard active: no quit, straight to open-app with the name.
	require.Len(t, cmds, 2)
	assert.Equal(t, byte(claDashboard), cmds[1].CLA)
	assert.Equal(t, byte(insOpenApp), cmds[1].INS)
	assert.Equal(t, []byte("Karlsen"), cmds[1].Payload)
}

func TestEnsureAppQuitsOtherApp(t *testing.T) {
	transport := &scriptTransport{handler: func(cmd APDU) ([]byte, error) {
		if cmd.CLA == claBolos && cmd.INS == insGetAppAndVersion {
			return appResponse("Bitcoin", "2.2.1"), nil
		}
		return ok(), nil
	}}

	require.NoError(t, EnsureApp(context.Background(), transport, "Karlsen"))

	cmds := transport.commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, byte(insQuitApp), cmds[1].INS)
	assert.Equal(t, byte(insOpenApp), cmds[2].INS)
}

func TestEnsureAppOpenRejected(t *testing.T) {
	transport := &scriptTransport{handler: func(cmd APDU) ([]byte, error) {
		if cmd.CLA == claBolos && cmd.INS == insGetAppAndVersion {
			return appResponse("BOLOS", "2.1.0"), nil
		}
		// App not installed.
		return sw(swAppNotOpen), nil
	}}

	err := EnsureApp(context.Background(), transport, "Karlsen")
	assert.ErrorIs(t, err, ErrWrongApp)
}

func TestExchangeStatusMapping(t *testing.T) {
	for _, tc := range []struct {
		code uint16
		want error
	}{
		{swDeny, ErrUserCancelled},
		{swDeny, ErrTransport},
		{swClaNotSupported, ErrWrongApp},
		{swInsNotSupported, ErrWrongApp},
		{0x6700, ErrTransport},
	} {
		transport := &scriptTransport{handler: func(APDU) ([]byte, error) {
			return sw(tc.code), nil
		}}
		_, err := exchange(context.Background(), transport, APDU{CLA: claApp})
		assert.ErrorIs(t, err, tc.want, "status %#04x", tc.code)
	}
}

func TestExchangeShortResponse(t *testing.T) {
	transport := &scriptTransport{handler: func(APDU) ([]byte, error) {
		return []byte{0x90}, nil
	}}
	_, err := exchange(context.Background(), transport, APDU{})
	assert.ErrorIs(t, err, ErrResponseFormat)
}
