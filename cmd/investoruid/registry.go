package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/privacybydesign/investoruid"
	"github.com/privacybydesign/investoruid/internal/common"
	"github.com/privacybydesign/investoruid/registry"
	"github.com/privacybydesign/investoruid/signed"
)

func (a *app) openRegistry(opts ...registry.Option) (*registry.DB, error) {
	if a.cfg.Registry == nil {
		return nil, errors.New("no registry configured")
	}
	return a.cfg.Registry.Open(opts...)
}

func registerRegistry(a *app, root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the claim registry",
	}
	cmd.AddCommand(
		keygenCmd(),
		attestCmd(),
		addCddCmd(a),
		addClaimCmd(a),
		countCmd(a),
		lookupCmd(a),
	)
	root.AddCommand(cmd)
}

func keygenCmd() *cobra.Command {
	var private, public string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a CDD provider signing key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sk, err := signed.GenerateKey()
			if err != nil {
				return err
			}
			skPem, err := signed.MarshalPemPrivateKey(sk)
			if err != nil {
				return err
			}
			pkPem, err := signed.MarshalPemPublicKey(&sk.PublicKey)
			if err != nil {
				return err
			}
			if err = os.WriteFile(private, skPem, 0600); err != nil {
				return err
			}
			return os.WriteFile(public, pkPem, 0644)
		},
	}
	cmd.Flags().StringVar(&private, "private", "", "private key output file")
	cmd.Flags().StringVar(&public, "public", "", "public key output file")
	required(cmd, "private", "public")
	return cmd
}

func attestCmd() *cobra.Command {
	var key, did, uid string
	cmd := &cobra.Command{
		Use:   "attest",
		Short: "Sign a CDD attestation of an identity's CddId as a provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bts, err := os.ReadFile(key)
			if err != nil {
				return err
			}
			sk, err := signed.UnmarshalPemPrivateKey(bts)
			if err != nil {
				return err
			}
			d, err := investoruid.ParseIdentityID(did)
			if err != nil {
				return err
			}
			u, err := investoruid.ParseInvestorUID(uid)
			if err != nil {
				return err
			}
			msg, err := signed.MarshalSign(sk, &registry.CddAttestation{
				DID:    d,
				CddID:  investoruid.ComputeCddID(investoruid.NewCddClaimData(d, u)),
				Issued: time.Now(),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(msg))
			return err
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "provider private key file")
	cmd.Flags().StringVar(&did, "did", "", "identity")
	cmd.Flags().StringVar(&uid, "uid", "", "investor UID (hex)")
	required(cmd, "key", "did", "uid")
	return cmd
}

func addCddCmd(a *app) *cobra.Command {
	var provider, message string
	cmd := &cobra.Command{
		Use:   "add-cdd",
		Short: "Register a signed CDD attestation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := decodeHex("message", message)
			if err != nil {
				return err
			}
			db, err := a.openRegistry()
			if err != nil {
				return err
			}
			defer common.Close(db)
			att, err := db.AddCddClaim(provider, msg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", att.DID, att.CddID)
			return err
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "name of the signing provider")
	cmd.Flags().StringVar(&message, "message", "", "signed attestation (hex)")
	required(cmd, "provider", "message")
	return cmd
}

func addClaimCmd(a *app) *cobra.Command {
	var claim claimFlags
	cmd := &cobra.Command{
		Use:   "add-claim",
		Short: "Verify and register an investor uniqueness claim",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			did, c, proof, err := claim.parse()
			if err != nil {
				return err
			}
			db, err := a.openRegistry()
			if err != nil {
				return err
			}
			defer common.Close(db)
			if err = db.AddInvestorUniquenessClaim(registry.Submission{DID: did, Claim: c, Proof: proof}); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "claim added")
			return err
		},
	}
	claim.register(cmd)
	return cmd
}

func countCmd(a *app) *cobra.Command {
	var scope scopeFlags
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count the distinct investors of a scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scope.scope()
			if err != nil {
				return err
			}
			db, err := a.openRegistry(registry.ReadOnly())
			if err != nil {
				return err
			}
			defer common.Close(db)
			n, err := db.InvestorCount(s)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
	scope.register(cmd)
	return cmd
}

func lookupCmd(a *app) *cobra.Command {
	var did string
	var scope scopeFlags
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Print the CddId of an identity, and its ScopeId if a scope is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := investoruid.ParseIdentityID(did)
			if err != nil {
				return err
			}
			db, err := a.openRegistry(registry.ReadOnly())
			if err != nil {
				return err
			}
			defer common.Close(db)
			cddID, err := db.CddIDOf(d)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "CddId:  ", cddID)
			if scope == (scopeFlags{}) {
				return nil
			}
			s, err := scope.scope()
			if err != nil {
				return err
			}
			scopeID, err := db.ScopeIDOf(d, s)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, "ScopeId:", scopeID)
			return err
		},
	}
	cmd.Flags().StringVar(&did, "did", "", "identity")
	scope.register(cmd)
	required(cmd, "did")
	return cmd
}
