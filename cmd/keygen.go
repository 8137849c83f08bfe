package cmd

import (
	"path/filepath"

	"github.com/sealbox/sealbox/internal/configs"
	"github.com/sealbox/sealbox/internal/ui"
	"github.com/sealbox/sealbox/internal/utils"
	"github.com/sealbox/sealbox/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	keygenBits           int
	keygenPublicKeyPath  string
	keygenPrivateKeyPath string
	keygenNoPassphrase   bool
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an RSA key pair for encrypting and decrypting files",
	Long: `Generate an RSA key pair and save both halves as PEM files.

Unless --no-passphrase is given, you are prompted for a passphrase to
protect the private key at rest. An empty passphrase leaves the key
unprotected.

Examples:
  sealbox keygen                                  # 2048-bit pair in the default key directory
  sealbox keygen --bits 4096 --no-passphrase      # larger pair, unprotected private key
  sealbox keygen --private-key my.pem --public-key my.pub.pem`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keygen command")

		config, err := configs.LoadUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load config: %v", err)
		}

		bits := keygenBits
		if bits == 0 {
			bits = config.Keys.Bits
		}
		privateKeyPath := keygenPrivateKeyPath
		if privateKeyPath == "" {
			privateKeyPath = filepath.Join(config.Keys.Directory, "private_key.pem")
		}
		publicKeyPath := keygenPublicKeyPath
		if publicKeyPath == "" {
			publicKeyPath = filepath.Join(config.Keys.Directory, "public_key.pem")
		}

		// Passphrase acquisition happens before the spinner so the prompt
		// isn't fighting the spinner for the terminal.
		var passphrase []byte
		if !keygenNoPassphrase {
			if !utils.IsTerminal() {
				return Logger.ErrorfAndReturn("cannot prompt for a passphrase: stdin is not a terminal (use --no-passphrase)")
			}
			passphrase, err = utils.ReadPassphraseConfirmed("Passphrase for private key (empty for none): ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
			}
		}

		spinner, cleanup := startSpinner("Generating RSA key pair...")
		defer cleanup()

		Logger.Debugf("Generating %d-bit key pair", bits)
		result, err := workflows.Keygen(cmd.Context(), workflows.KeygenOptions{
			Bits:           bits,
			PublicKeyPath:  publicKeyPath,
			PrivateKeyPath: privateKeyPath,
			Passphrase:     passphrase,
		})
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to generate key pair\n" +
				ui.Error.Sprint("Error: ") + err.Error()
			return nil
		}

		protection := "no passphrase"
		if result.Protected {
			protection = "passphrase-protected"
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Generated " + ui.Highlight.Sprintf("%d-bit", result.Bits) + " RSA key pair\n" +
			"    - public:  " + ui.Path.Sprint(result.PublicKeyPath) + "\n" +
			"    - private: " + ui.Path.Sprint(result.PrivateKeyPath) + " (" + protection + ")\n" +
			ui.Info.Sprint("→") + " Share the public key; keep the private key safe"
		return nil
	},
}

func init() {
	keygenCmd.Flags().IntVar(&keygenBits, "bits", 0, "RSA key size: 1024, 2048, 3072 or 4096 (default from config)")
	keygenCmd.Flags().StringVar(&keygenPublicKeyPath, "public-key", "", "path to save the public key")
	keygenCmd.Flags().StringVar(&keygenPrivateKeyPath, "private-key", "", "path to save the private key")
	keygenCmd.Flags().BoolVar(&keygenNoPassphrase, "no-passphrase", false, "save the private key without passphrase protection")
}
