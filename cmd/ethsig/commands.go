package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ethsig.mleku.dev"
	"ethsig.mleku.dev/signer"
)

const (
	demoMessage = "Hello!"
	demoKey     = "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
)

// app holds the state shared by the commands of one invocation
type app struct {
	configPath string
	signer     *signer.Signer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "ethsig",
		Short:         "Ethereum style secp256k1 keys, addresses and signatures",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "TOML configuration file")

	rootCmd.AddCommand(
		a.addressCmd(),
		a.checksumCmd(),
		a.keccakCmd(),
		a.pubkeyCmd(),
		a.signCmd(),
		a.signerCmd(),
		a.verifyCmd(),
		a.ecdhCmd(),
		a.keygenCmd(),
		a.demoCmd(),
	)
	return rootCmd
}

// setup loads the configuration, sets up logging and creates the signer
func (a *app) setup() error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if err = setupLogging(cfg.Log); err != nil {
		return err
	}
	c, err := ethsig.NewContext(ethsig.WithConfig(cfg))
	if err != nil {
		return errors.WithMessage(err, "create signing context")
	}
	a.signer = signer.New(c)
	log.Debugw("initialized", "hmac", cfg.HMAC, "base_window", cfg.BaseWindow)
	return nil
}

func (a *app) addressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address <private key>",
		Short: "Print the checksummed address of a private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := a.signer.AddressFromKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
}

func (a *app) checksumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checksum <address>",
		Short: "Print the EIP-55 form of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := a.signer.AddressChecksum(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
}

func (a *app) keccakCmd() *cobra.Command {
	var utf8 bool
	cmd := &cobra.Command{
		Use:   "keccak <input>",
		Short: "Print the Keccak-256 digest of a string, or of hex bytes when prefixed with 0x",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := a.signer.Keccak(args[0], utf8)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sum)
			return nil
		},
	}
	cmd.Flags().BoolVar(&utf8, "utf8", false, "hash 0x prefixed input as text")
	return cmd
}

func (a *app) pubkeyCmd() *cobra.Command {
	var compressed bool
	cmd := &cobra.Command{
		Use:   "pubkey <private key>",
		Short: "Print the public key of a private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := a.signer.PublicKey(args[0], compressed)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pub)
			return nil
		},
	}
	cmd.Flags().BoolVar(&compressed, "compressed", false, "print the 33-byte compressed form")
	return cmd
}

func (a *app) signCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign <digest> <private key>",
		Short: "Sign a digest and print the 65-byte recoverable signature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := a.signer.SignMessage(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}
}

func (a *app) signerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signer <digest> <signature>",
		Short: "Print the address that produced a recoverable signature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := a.signer.SignerAddress(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
}

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <digest> <signature> <public key>",
		Short: "Verify a signature against a public key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.signer.Verify(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func (a *app) ecdhCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ecdh <private key> <public key>",
		Short: "Print the ECDH shared point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := a.signer.SharedSecret(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}
}

func (a *app) keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a private key and print it with its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.signer.GenerateKey()
			if err != nil {
				return err
			}
			addr, err := a.signer.AddressFromKey(key)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "private_key :", key)
			fmt.Fprintln(out, "address     :", addr)
			return nil
		},
	}
}

func (a *app) demoCmd() *cobra.Command {
	var key, message string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Derive an address, sign a message digest and recover the signer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := a.signer.AddressFromKey(key)
			if err != nil {
				return err
			}
			digest, err := a.signer.Keccak(message, true)
			if err != nil {
				return err
			}
			sig, err := a.signer.SignMessage(context.Background(), digest, key)
			if err != nil {
				return err
			}
			recovered, err := a.signer.SignerAddress(digest, sig)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "private_key  :", key)
			fmt.Fprintln(out, "address      :", address)
			fmt.Fprintln(out, "message      :", message)
			fmt.Fprintln(out, "message_hash :", digest)
			fmt.Fprintln(out, "signature    :", sig)
			fmt.Fprintln(out, "Verified?", recovered == address)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", demoKey, "private key")
	cmd.Flags().StringVar(&message, "message", demoMessage, "message to hash and sign")
	return cmd
}
