package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/privacybydesign/investoruid/vectors"
)

func registerVectors(a *app, root *cobra.Command) {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "vectors",
		Short: "Print the golden vectors for the test identities in ticker scope " + vectors.Ticker,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rnd, err := a.cfg.Rng.New()
			if err != nil {
				return err
			}
			vs, err := vectors.Generate(rnd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, vs)
			}
			for _, v := range vs {
				fmt.Fprintf(out, "DID:      %s\nUID:      %s\nScope:    %s\nCddId:    %s\nScopeId:  %s\nProof v1: %s\nProof v2: %s\n\n",
					v.DID, v.UID, v.Scope, v.CddID, v.ScopeID, v.ProofV1, v.ProofV2)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	root.AddCommand(cmd)
}
