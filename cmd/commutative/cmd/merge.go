package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/apex/log"
	"github.com/bastionzero/commutative"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringP("key", "k", "", "key file whose modulus reduces the product")
	viper.BindPFlag("merge.key", mergeCmd.Flags().Lookup("key"))
}

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:           "merge <KEY1> <KEY2>",
	Short:         "Multiply two hex-encoded encryption keys",
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := libraryOptions()

		k1, err := decodeHexArg("KEY1", args[0])
		if err != nil {
			return err
		}
		k2, err := decodeHexArg("KEY2", args[1])
		if err != nil {
			return err
		}

		merged, err := mergeKeys(viper.GetString("merge.key"), k1, k2, opts)
		if err != nil {
			return err
		}

		fmt.Println(hex.EncodeToString(merged))
		return nil
	},
}

// reduces mod p-1 when a key file supplies the modulus
func mergeKeys(keyFile string, k1, k2 []byte, opts []commutative.Option) ([]byte, error) {
	if keyFile == "" {
		return commutative.MergeKeys(k1, k2)
	}

	c, err := readKeyFile(keyFile, opts)
	if err != nil {
		return nil, err
	}
	log.WithField("bits", c.Modulus().BitLen()).Debug("Reducing merged key")
	return commutative.MergeKeysMod(c.Modulus(), k1, k2)
}
