package cmd

import (
	logger "github.com/sealbox/sealbox/internal/logging"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "sealbox",
		Short: "Encrypt and decrypt files with hybrid envelope encryption",
		Long: `Sealbox encrypts files for a recipient's RSA public key.

Each file is compressed, sealed with a fresh AES-256-GCM key, and the key is
wrapped with RSA-OAEP so only the matching private key can open it. The
result is a single self-describing artifact, base64-armored by default for
safe transport over text-only channels.

Run 'sealbox help <command>' for more details on a specific command.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing sealbox with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(keygenCmd)
	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(versionCmd)
}
