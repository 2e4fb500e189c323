package main

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/privacybydesign/investoruid"
	"github.com/privacybydesign/investoruid/config"
	"github.com/privacybydesign/investoruid/registry"
)

type app struct {
	configFile string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "investoruid",
		Short:         "Investor uniqueness commitments and proofs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to the config.yml file")

	for _, f := range []func(*app, *cobra.Command){
		registerVectors,
		registerCommitments,
		registerProofs,
		registerRegistry,
	} {
		f(a, root)
	}
	return root
}

func (a *app) init() error {
	cfg, err := config.InitConfig(a.configFile)
	if err != nil {
		return errors.WrapPrefix(err, "config", 0)
	}
	if err = cfg.Log.Apply(investoruid.Logger); err != nil {
		return err
	}
	if registry.Logger != investoruid.Logger {
		if err = cfg.Log.Apply(registry.Logger); err != nil {
			return err
		}
	}
	a.cfg = cfg
	return nil
}

// scopeFlags selects a scope from exactly one of three flags.
type scopeFlags struct {
	ticker, identity, custom string
}

func (s *scopeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.ticker, "ticker", "", "ticker scope")
	cmd.Flags().StringVar(&s.identity, "scope-identity", "", "identity scope (DID)")
	cmd.Flags().StringVar(&s.custom, "scope-custom", "", "custom scope (hex)")
}

func (s *scopeFlags) scope() (investoruid.Scope, error) {
	set := 0
	for _, v := range []string{s.ticker, s.identity, s.custom} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return investoruid.Scope{}, errors.New("specify exactly one of --ticker, --scope-identity and --scope-custom")
	}
	switch {
	case s.ticker != "":
		return investoruid.TickerScope(s.ticker)
	case s.identity != "":
		did, err := investoruid.ParseIdentityID(s.identity)
		if err != nil {
			return investoruid.Scope{}, err
		}
		return investoruid.IdentityScope(did), nil
	default:
		bts, err := hex.DecodeString(strings.TrimPrefix(s.custom, "0x"))
		if err != nil {
			return investoruid.Scope{}, errors.WrapPrefix(err, "custom scope", 0)
		}
		return investoruid.CustomScope(bts)
	}
}

func decodeHex(name, s string) ([]byte, error) {
	bts, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, errors.WrapPrefix(err, name, 0)
	}
	return bts, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func required(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		_ = cmd.MarkFlagRequired(n)
	}
}
