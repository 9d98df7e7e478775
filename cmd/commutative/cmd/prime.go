package cmd

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/bastionzero/commutative"
	"github.com/briandowns/spinner"
	"github.com/caarlos0/ctrlc"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(primeCmd)
	primeCmd.AddCommand(primeGenerateCmd)
	primeCmd.AddCommand(primeCheckCmd)

	primeGenerateCmd.Flags().IntP("bits", "b", commutative.SecurePrimeBits, "bit length of the safe prime")
	primeGenerateCmd.Flags().DurationP("timeout", "t", 0, "give up after this long (0 waits forever)")
	viper.BindPFlag("prime.generate.bits", primeGenerateCmd.Flags().Lookup("bits"))
	viper.BindPFlag("prime.generate.timeout", primeGenerateCmd.Flags().Lookup("timeout"))
}

// primeCmd represents the prime command
var primeCmd = &cobra.Command{
	Use:   "prime",
	Short: "Generate and check safe primes",
}

var primeGenerateCmd = &cobra.Command{
	Use:           "generate",
	Aliases:       []string{"gen", "g"},
	Short:         "Generate a random safe prime",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := libraryOptions()

		m, err := generatePrime(viper.GetInt("prime.generate.bits"), viper.GetDuration("prime.generate.timeout"), opts)
		if err != nil {
			return err
		}

		fmt.Println(hex.EncodeToString(m.Bytes()))
		return nil
	},
}

var primeCheckCmd = &cobra.Command{
	Use:           "check <HEX>",
	Short:         "Check that a hex-encoded number is a safe prime",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := libraryOptions()

		candidate, err := decodeHexArg("prime", args[0])
		if err != nil {
			return err
		}

		m, err := commutative.CheckSafePrime(candidate, opts...)
		if err != nil {
			return err
		}

		log.WithField("bits", m.BitLen()).Info("Safe prime")
		return nil
	},
}

// runs a safe prime search behind a spinner; Ctrl-C or the timeout abandons it
func generatePrime(bits int, timeout time.Duration, opts []commutative.Option) (*commutative.Modulus, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := spinner.New(spinner.CharSets[38], 100*time.Millisecond)
	s.Prefix = color.BlueString("   • Searching for a %d-bit safe prime... ", bits)
	s.Start()

	var m *commutative.Modulus
	err := ctrlc.Default.Run(ctx, func() error {
		var err error
		m, err = commutative.GenerateSafePrime(ctx, bits, opts...)
		return err
	})
	s.Stop()

	if err != nil {
		if errors.As(err, &ctrlc.ErrorCtrlC{}) {
			log.Warn("Exiting...")
		}
		return nil, err
	}
	return m, nil
}
