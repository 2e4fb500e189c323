package main

import (
	"encoding/hex"
	"fmt"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/privacybydesign/investoruid"
)

// proofOutput is printed by prove and holds everything verify needs.
type proofOutput struct {
	DID     investoruid.IdentityID `json:"did"`
	Scope   string                 `json:"scope"`
	CddID   investoruid.CddID      `json:"cdd_id"`
	ScopeID investoruid.ScopeID    `json:"scope_id"`
	Version uint8                  `json:"version"`
	Proof   string                 `json:"proof"`
}

// claimFlags describe an investor uniqueness claim and its proof.
type claimFlags struct {
	did, scopeID, cddID, proof string
	scope                      scopeFlags
}

func (c *claimFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.did, "did", "", "identity making the claim")
	cmd.Flags().StringVar(&c.scopeID, "scope-id", "", "claimed ScopeId (hex)")
	cmd.Flags().StringVar(&c.cddID, "cdd-id", "", "CddId of the identity (hex)")
	cmd.Flags().StringVar(&c.proof, "proof", "", "encoded proof (hex)")
	c.scope.register(cmd)
	required(cmd, "did", "scope-id", "cdd-id", "proof")
}

func (c *claimFlags) parse() (investoruid.IdentityID, investoruid.InvestorUniquenessClaim, investoruid.InvestorZKProofData, error) {
	var (
		claim investoruid.InvestorUniquenessClaim
		proof investoruid.InvestorZKProofData
	)
	did, err := investoruid.ParseIdentityID(c.did)
	if err != nil {
		return did, claim, proof, err
	}
	if claim.Scope, err = c.scope.scope(); err != nil {
		return did, claim, proof, err
	}
	if claim.ScopeID, err = investoruid.ParseScopeID(c.scopeID); err != nil {
		return did, claim, proof, errors.WrapPrefix(err, "scope id", 0)
	}
	if claim.CddID, err = investoruid.ParseCddID(c.cddID); err != nil {
		return did, claim, proof, errors.WrapPrefix(err, "cdd id", 0)
	}
	bts, err := decodeHex("proof", c.proof)
	if err != nil {
		return did, claim, proof, err
	}
	if err = proof.UnmarshalBinary(bts); err != nil {
		return did, claim, proof, err
	}
	return did, claim, proof, nil
}

func registerProofs(a *app, root *cobra.Command) {
	var (
		did, uid string
		version  uint8
		scope    scopeFlags
	)
	proveCmd := &cobra.Command{
		Use:   "prove",
		Short: "Create an investor uniqueness claim and its proof",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := investoruid.ParseIdentityID(did)
			if err != nil {
				return err
			}
			u, err := investoruid.ParseInvestorUID(uid)
			if err != nil {
				return err
			}
			s, err := scope.scope()
			if err != nil {
				return err
			}
			rnd, err := a.cfg.Rng.New()
			if err != nil {
				return err
			}

			cdd := investoruid.NewCddClaimData(d, u)
			sc := investoruid.NewScopeClaimData(s, u)
			proof, err := investoruid.CreateInvestorZKProof(investoruid.ProofVersion(version), cdd, sc, rnd)
			if err != nil {
				return err
			}
			bts, err := proof.MarshalBinary()
			if err != nil {
				return err
			}
			claim := investoruid.NewInvestorUniquenessClaim(cdd, sc)
			return printJSON(cmd.OutOrStdout(), &proofOutput{
				DID:     d,
				Scope:   s.String(),
				CddID:   claim.CddID,
				ScopeID: claim.ScopeID,
				Version: version,
				Proof:   hex.EncodeToString(bts),
			})
		},
	}
	proveCmd.Flags().StringVar(&did, "did", "", "identity (hex, optionally prefixed by did:poly:)")
	proveCmd.Flags().StringVar(&uid, "uid", "", "investor UID (hex)")
	proveCmd.Flags().Uint8Var(&version, "version", uint8(investoruid.ProofV2), "proof version (1 or 2)")
	scope.register(proveCmd)
	required(proveCmd, "did", "uid")

	var claim claimFlags
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an investor uniqueness claim against a CddId",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, c, proof, err := claim.parse()
			if err != nil {
				return err
			}
			if err = investoruid.VerifyClaim(c, d, proof); err != nil {
				return errors.WrapPrefix(err, "proof rejected", 0)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "valid %s proof\n", proof.Version())
			return err
		},
	}
	claim.register(verifyCmd)

	root.AddCommand(proveCmd, verifyCmd)
}
