package cmd

import (
	"fmt"

	"github.com/bastionzero/commutative"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(encryptCmd)

	encryptCmd.Flags().StringP("key", "k", "", "key file")
	encryptCmd.Flags().StringP("encoding", "e", string(commutative.UTF8), "encoding of DATA (utf8, hex or base64)")
	encryptCmd.Flags().StringP("output", "o", string(commutative.Hex), "encoding of the ciphertext (hex or base64)")
	viper.BindPFlag("encrypt.key", encryptCmd.Flags().Lookup("key"))
	viper.BindPFlag("encrypt.encoding", encryptCmd.Flags().Lookup("encoding"))
	viper.BindPFlag("encrypt.output", encryptCmd.Flags().Lookup("output"))
}

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:           "encrypt <DATA>",
	Aliases:       []string{"enc"},
	Short:         "Encrypt DATA with a key file",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := libraryOptions()

		c, err := readKeyFile(viper.GetString("encrypt.key"), opts)
		if err != nil {
			return err
		}

		in, err := commutative.ParseEncoding(viper.GetString("encrypt.encoding"))
		if err != nil {
			return err
		}
		out, err := commutative.ParseEncoding(viper.GetString("encrypt.output"))
		if err != nil {
			return err
		}

		ct, err := c.EncryptString(args[0], in)
		if err != nil {
			return err
		}

		s, err := commutative.EncodeString(ct, out)
		if err != nil {
			return err
		}
		fmt.Println(s)
		return nil
	},
}
