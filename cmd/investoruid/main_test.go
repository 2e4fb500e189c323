package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/investoruid"
	"github.com/privacybydesign/investoruid/vectors"
)

const (
	testDID = "did:poly:0600000000000000000000000000000000000000000000000000000000000000"
	testUID = "0x0102030405060708090a0b0c0d0e0f10"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func prove(t *testing.T, args ...string) proofOutput {
	t.Helper()
	out, err := run(t, append([]string{"prove"}, args...)...)
	require.NoError(t, err)
	var p proofOutput
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	return p
}

func verifyArgs(p proofOutput, did string) []string {
	return []string{"verify", "--did", did, "--ticker", "A",
		"--scope-id", p.ScopeID.String(), "--cdd-id", p.CddID.String(), "--proof", p.Proof}
}

func TestCddID(t *testing.T) {
	out, err := run(t, "cdd-id", "--did", testDID, "--uid", testUID)
	require.NoError(t, err)

	did, err := investoruid.ParseIdentityID(testDID)
	require.NoError(t, err)
	uid, err := investoruid.ParseInvestorUID(testUID)
	require.NoError(t, err)
	assert.Equal(t, investoruid.ComputeCddID(investoruid.NewCddClaimData(did, uid)).String(), strings.TrimSpace(out))

	_, err = run(t, "cdd-id", "--did", "0x06", "--uid", testUID)
	assert.Error(t, err)
	_, err = run(t, "cdd-id", "--did", testDID)
	assert.Error(t, err)
}

func TestScopeID(t *testing.T) {
	out, err := run(t, "scope-id", "--ticker", "A", "--uid", testUID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "0x"))
	assert.Len(t, strings.TrimSpace(out), 66)

	out2, err := run(t, "scope-id", "--scope-custom", "41", "--uid", testUID)
	require.NoError(t, err)
	assert.NotEqual(t, out, out2)

	_, err = run(t, "scope-id", "--ticker", "A", "--scope-custom", "41", "--uid", testUID)
	assert.Error(t, err)
	_, err = run(t, "scope-id", "--uid", testUID)
	assert.Error(t, err)
}

func TestProveVerify(t *testing.T) {
	for _, version := range []string{"1", "2"} {
		t.Run("v"+version, func(t *testing.T) {
			p := prove(t, "--did", testDID, "--uid", testUID, "--ticker", "A", "--version", version)
			assert.Equal(t, "ticker:A", p.Scope)

			out, err := run(t, verifyArgs(p, testDID)...)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("valid v%s proof\n", version), out)

			_, err = run(t, verifyArgs(p, "0x07"+strings.Repeat("00", 31))...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "proof rejected")
		})
	}
}

func TestVerifyMalformedProof(t *testing.T) {
	p := prove(t, "--did", testDID, "--uid", testUID, "--ticker", "A")

	p.Proof = "03" + p.Proof[2:]
	_, err := run(t, verifyArgs(p, testDID)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported proof version")

	p.Proof = "zz"
	_, err = run(t, verifyArgs(p, testDID)...)
	assert.Error(t, err)
}

func TestProveUnsupportedVersion(t *testing.T) {
	_, err := run(t, "prove", "--did", testDID, "--uid", testUID, "--ticker", "A", "--version", "3")
	assert.Error(t, err)
}

func TestVectorsSeeded(t *testing.T) {
	t.Setenv("INVESTORUID_RNG__SOURCE", "seeded")
	t.Setenv("INVESTORUID_RNG__SEED", strings.Repeat("11", 32))

	out1, err := run(t, "vectors", "--json")
	require.NoError(t, err)
	out2, err := run(t, "vectors", "--json")
	require.NoError(t, err)
	assert.Equal(t, out1, out2)

	var vs []vectors.Vector
	require.NoError(t, json.Unmarshal([]byte(out1), &vs))
	require.Len(t, vs, 2)
	assert.Equal(t, testDID, vs[0].DID)

	text, err := run(t, "vectors")
	require.NoError(t, err)
	assert.Contains(t, text, vs[0].CddID)
}

func TestBadConfig(t *testing.T) {
	t.Setenv("INVESTORUID_RNG__SOURCE", "dice")
	_, err := run(t, "vectors")
	assert.Error(t, err)
}

func TestRegistryFlow(t *testing.T) {
	dir := t.TempDir()
	sk, pk := filepath.Join(dir, "sk.pem"), filepath.Join(dir, "pk.pem")
	_, err := run(t, "registry", "keygen", "--private", sk, "--public", pk)
	require.NoError(t, err)

	cfgFile := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(fmt.Sprintf(`
log:
  level: error
registry:
  path: %s
  providers:
    acme: %s
`, filepath.Join(dir, "registry.db"), pk)), 0600))

	msg, err := run(t, "registry", "attest", "--key", sk, "--did", testDID, "--uid", testUID)
	require.NoError(t, err)

	_, err = run(t, "--config", cfgFile, "registry", "add-cdd", "--provider", "unknown", "--message", msg)
	assert.Error(t, err)
	out, err := run(t, "--config", cfgFile, "registry", "add-cdd", "--provider", "acme", "--message", msg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, testDID))

	p := prove(t, "--did", testDID, "--uid", testUID, "--ticker", "A")
	args := append([]string{"--config", cfgFile, "registry", "add-claim"}, verifyArgs(p, testDID)[1:]...)
	out, err = run(t, args...)
	require.NoError(t, err)
	assert.Equal(t, "claim added\n", out)

	out, err = run(t, "--config", cfgFile, "registry", "count", "--ticker", "A")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = run(t, "--config", cfgFile, "registry", "lookup", "--did", testDID, "--ticker", "A")
	require.NoError(t, err)
	assert.Contains(t, out, p.CddID.String())
	assert.Contains(t, out, p.ScopeID.String())

	_, err = run(t, "registry", "count", "--ticker", "A")
	assert.Error(t, err)
}
