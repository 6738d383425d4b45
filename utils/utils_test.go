package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lightningco/nodecore/utils"
)

const validPubkey = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

func TestParseLSPURIAcceptsValidPubkeyAndHost(t *testing.T) {
	pubkey, host, err := utils.ParseLSPURI(validPubkey + "@10.0.0.1:9735")
	require.NoError(t, err)
	require.Equal(t, validPubkey, pubkey)
	require.Equal(t, "10.0.0.1:9735", host)
}

func TestParseLSPURILowercasesPubkey(t *testing.T) {
	upper := "0279BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798"
	pubkey, _, err := utils.ParseLSPURI(upper + "@127.0.0.1:9735")
	require.NoError(t, err)
	require.Equal(t, validPubkey, pubkey)
}

func TestParseLSPURIRejectsMissingAt(t *testing.T) {
	_, _, err := utils.ParseLSPURI(validPubkey + "127.0.0.1:9735")
	require.Error(t, err)
}

func TestParseLSPURIRejectsEmptyHost(t *testing.T) {
	_, _, err := utils.ParseLSPURI(validPubkey + "@")
	require.Error(t, err)
}

func TestParseLSPURIRejectsNonHexPubkey(t *testing.T) {
	_, _, err := utils.ParseLSPURI("not-hex@127.0.0.1:9735")
	require.Error(t, err)
}

// A hex string of the right length that doesn't decode to a point on the
// curve must still be rejected, not just accepted for looking pubkey-shaped.
func TestParseLSPURIRejectsHexShapedButInvalidCurvePoint(t *testing.T) {
	notAPoint := "02ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	_, _, err := utils.ParseLSPURI(notAPoint + "@127.0.0.1:9735")
	require.Error(t, err)
}
