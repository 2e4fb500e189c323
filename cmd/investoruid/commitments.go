package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/privacybydesign/investoruid"
)

func registerCommitments(_ *app, root *cobra.Command) {
	var did, uid string
	cddCmd := &cobra.Command{
		Use:   "cdd-id",
		Short: "Compute the CddId of an identity and investor UID",
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
			_, err = fmt.Fprintln(cmd.OutOrStdout(), investoruid.ComputeCddID(investoruid.NewCddClaimData(d, u)))
			return err
		},
	}
	cddCmd.Flags().StringVar(&did, "did", "", "identity (hex, optionally prefixed by did:poly:)")
	cddCmd.Flags().StringVar(&uid, "uid", "", "investor UID (hex)")
	required(cddCmd, "did", "uid")

	var scopeUID string
	var scope scopeFlags
	scopeCmd := &cobra.Command{
		Use:   "scope-id",
		Short: "Compute the ScopeId of a scope and investor UID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scope.scope()
			if err != nil {
				return err
			}
			u, err := investoruid.ParseInvestorUID(scopeUID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), investoruid.ComputeScopeID(investoruid.NewScopeClaimData(s, u)))
			return err
		},
	}
	scope.register(scopeCmd)
	scopeCmd.Flags().StringVar(&scopeUID, "uid", "", "investor UID (hex)")
	required(scopeCmd, "uid")

	root.AddCommand(cddCmd, scopeCmd)
}
