package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/bastionzero/commutative"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyGenerateCmd)
	keyCmd.AddCommand(keyInfoCmd)
	keyCmd.AddCommand(keySplitCmd)

	keyGenerateCmd.Flags().StringP("group", "g", "", "well-known group (see 'commutative groups')")
	keyGenerateCmd.Flags().IntP("bits", "b", 0, "generate a fresh safe prime of this length")
	keyGenerateCmd.Flags().StringP("prime", "p", "", "hex-encoded safe prime")
	keyGenerateCmd.Flags().StringP("out", "o", "", "output key file (default is stdout)")
	keyGenerateCmd.MarkFlagsMutuallyExclusive("group", "bits", "prime")
	viper.BindPFlag("key.generate.group", keyGenerateCmd.Flags().Lookup("group"))
	viper.BindPFlag("key.generate.bits", keyGenerateCmd.Flags().Lookup("bits"))
	viper.BindPFlag("key.generate.prime", keyGenerateCmd.Flags().Lookup("prime"))
	viper.BindPFlag("key.generate.out", keyGenerateCmd.Flags().Lookup("out"))

	keyInfoCmd.Flags().StringP("key", "k", "", "key file")
	viper.BindPFlag("key.info.key", keyInfoCmd.Flags().Lookup("key"))

	keySplitCmd.Flags().StringP("key", "k", "", "key file")
	keySplitCmd.Flags().IntP("shards", "n", 2, "number of shards")
	keySplitCmd.Flags().Bool("additive", false, "split by addition instead of multiplication")
	keySplitCmd.Flags().Bool("decryption", false, "split the decryption key instead of the encryption key")
	viper.BindPFlag("key.split.key", keySplitCmd.Flags().Lookup("key"))
	viper.BindPFlag("key.split.shards", keySplitCmd.Flags().Lookup("shards"))
	viper.BindPFlag("key.split.additive", keySplitCmd.Flags().Lookup("additive"))
	viper.BindPFlag("key.split.decryption", keySplitCmd.Flags().Lookup("decryption"))
}

// keyCmd represents the key command
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Create, inspect and split cipher keys",
}

var keyGenerateCmd = &cobra.Command{
	Use:           "generate",
	Aliases:       []string{"gen", "g"},
	Short:         "Create a cipher key over a group, a given prime or a fresh prime",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := libraryOptions()

		sel, err := selectorFromFlags(
			viper.GetString("key.generate.group"),
			viper.GetInt("key.generate.bits"),
			viper.GetString("key.generate.prime"),
		)
		if err != nil {
			return err
		}

		// a fresh prime gets a spinner and Ctrl-C handling
		if bits, ok := sel.(commutative.GeneratedBitLength); ok {
			m, err := generatePrime(int(bits), 0, opts)
			if err != nil {
				return err
			}
			sel = commutative.ExplicitModulus(m.Bytes())
		}

		c, err := commutative.CreateCipher(context.Background(), sel, opts...)
		if err != nil {
			return err
		}
		log.WithField("bits", c.Modulus().BitLen()).Debug("Created cipher key")

		return writeKeyFile(viper.GetString("key.generate.out"), c)
	},
}

var keyInfoCmd = &cobra.Command{
	Use:           "info",
	Short:         "Describe a key file",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// advisories are printed below rather than logged
		opts := append(libraryOptions(), commutative.WithLogger(&log.Logger{Handler: discard.Default}))

		c, err := readKeyFile(viper.GetString("key.info.key"), opts)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
		fmt.Fprintf(w, "prime\t%d bits\n", c.Modulus().BitLen())
		fmt.Fprintf(w, "encryption key\t%d bits\n", len(c.EncryptionKey())*8)
		fmt.Fprintf(w, "decryption key\t%d bits\n", len(c.DecryptionKey())*8)
		if err := w.Flush(); err != nil {
			return err
		}

		for _, a := range c.Advisories() {
			fmt.Println(color.YellowString("[%s] %s", a.Kind, a))
		}
		return nil
	},
}

var keySplitCmd = &cobra.Command{
	Use:           "split",
	Short:         "Split a key into hex-encoded shards, one per line",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := libraryOptions()

		c, err := readKeyFile(viper.GetString("key.split.key"), opts)
		if err != nil {
			return err
		}

		splitBy := commutative.Multiplication
		if viper.GetBool("key.split.additive") {
			splitBy = commutative.Addition
		}

		n := viper.GetInt("key.split.shards")
		var shards []*commutative.KeyShard
		if viper.GetBool("key.split.decryption") {
			shards, err = c.SplitDecryptionKey(n, splitBy, opts...)
		} else {
			shards, err = c.SplitEncryptionKey(n, splitBy, opts...)
		}
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{"shards": len(shards), "split": splitBy}).Debug("Split key")
		for _, s := range shards {
			fmt.Printf("%x\n", s.Exponent)
		}
		return nil
	},
}

// at most one of group, bits and prime may be set; none selects the default group
func selectorFromFlags(group string, bits int, prime string) (commutative.Selector, error) {
	set := 0
	for _, ok := range []bool{group != "", bits != 0, prime != ""} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return nil, errors.New("--group, --bits and --prime are mutually exclusive")
	}

	switch {
	case group != "":
		return commutative.NamedGroup(group), nil
	case bits < 0:
		return nil, errors.Errorf("invalid bit length %d", bits)
	case bits > 0:
		return commutative.GeneratedBitLength(bits), nil
	case prime != "":
		p, err := decodeHexArg("prime", prime)
		if err != nil {
			return nil, err
		}
		return commutative.ExplicitModulus(p), nil
	default:
		return commutative.DefaultGroup{}, nil
	}
}
