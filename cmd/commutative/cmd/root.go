package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/bastionzero/commutative"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// Verbose boolean flag for verbose logging
	Verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "commutative",
	Short: "Commutative encryption over safe primes",
	Long: `Generate and check safe primes, create cipher keys, encrypt, decrypt and merge keys
with a commutative modular-exponentiation cipher.`,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	log.SetHandler(clihander.Default)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/commutative/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().Int("secure-bits", commutative.SecurePrimeBits, "prime length below which a weak-prime advisory is raised")
	rootCmd.PersistentFlags().Int("min-bits", commutative.SecurePrimeBits, "smallest prime length that may be generated")
	rootCmd.PersistentFlags().Int("rounds", commutative.DefaultPrimalityRounds, "Miller-Rabin rounds per primality test")
	rootCmd.PersistentFlags().Int("workers", 0, "safe prime search goroutines (default is GOMAXPROCS)")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("secure-bits", rootCmd.PersistentFlags().Lookup("secure-bits"))
	viper.BindPFlag("min-bits", rootCmd.PersistentFlags().Lookup("min-bits"))
	viper.BindPFlag("rounds", rootCmd.PersistentFlags().Lookup("rounds"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "commutative"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("commutative")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// maps the persistent settings onto library options
func libraryOptions() []commutative.Option {
	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	}
	return []commutative.Option{
		commutative.WithSecureBits(viper.GetInt("secure-bits")),
		commutative.WithMinGenerateBits(viper.GetInt("min-bits")),
		commutative.WithPrimalityRounds(viper.GetInt("rounds")),
		commutative.WithWorkers(viper.GetInt("workers")),
	}
}
