package cmd

import (
	"fmt"

	"github.com/bastionzero/commutative"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(decryptCmd)

	decryptCmd.Flags().StringP("key", "k", "", "key file")
	decryptCmd.Flags().StringP("encoding", "e", string(commutative.Hex), "encoding of DATA (hex or base64)")
	decryptCmd.Flags().StringP("output", "o", string(commutative.UTF8), "encoding of the plaintext (utf8, hex or base64)")
	viper.BindPFlag("decrypt.key", decryptCmd.Flags().Lookup("key"))
	viper.BindPFlag("decrypt.encoding", decryptCmd.Flags().Lookup("encoding"))
	viper.BindPFlag("decrypt.output", decryptCmd.Flags().Lookup("output"))
}

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:           "decrypt <DATA>",
	Aliases:       []string{"dec"},
	Short:         "Decrypt DATA with a key file",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := libraryOptions()

		c, err := readKeyFile(viper.GetString("decrypt.key"), opts)
		if err != nil {
			return err
		}

		in, err := commutative.ParseEncoding(viper.GetString("decrypt.encoding"))
		if err != nil {
			return err
		}
		out, err := commutative.ParseEncoding(viper.GetString("decrypt.output"))
		if err != nil {
			return err
		}

		pt, err := c.DecryptString(args[0], in)
		if err != nil {
			return err
		}

		s, err := commutative.EncodeString(pt, out)
		if err != nil {
			return err
		}
		fmt.Println(s)
		return nil
	},
}
