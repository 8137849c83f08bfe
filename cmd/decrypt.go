package cmd

import (
	"errors"
	"os"

	serrors "github.com/sealbox/sealbox/internal/errors"
	"github.com/sealbox/sealbox/internal/ui"
	"github.com/sealbox/sealbox/internal/utils"
	"github.com/sealbox/sealbox/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	decryptPrivateKeyPath   string
	decryptOutputPath       string
	decryptPassphrasePrompt bool
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt <file|glob|dir> [...]",
	Short: "Decrypt sealbox artifacts with your RSA private key",
	Long: `Decrypt one or more sealbox artifacts back to their original contents.

Armored (base64) and binary artifacts are detected automatically. Output
names are derived by stripping the .sealed suffix; use --output when the
artifact is named differently.

If the private key is passphrase-protected you are prompted once; a wrong
passphrase fails the operation.

Examples:
  sealbox decrypt report.pdf.sealed -k private_key.pem
  sealbox decrypt '**/*.sealed' -k private_key.pem
  sealbox decrypt report.enc -k private_key.pem -o report.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")

		// An up-front prompt keeps the passphrase exchange off the spinner's
		// terminal line, mirroring the keygen flow.
		var passphrase []byte
		if decryptPassphrasePrompt {
			var err error
			passphrase, err = utils.ReadPassphrase("Enter private key passphrase: ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
			}
		}

		spinner, cleanup := startSpinner("Decrypting files...")
		defer cleanup()

		inputs, err := resolveDecryptInputs(args)
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " No artifacts to decrypt\n" +
				ui.Error.Sprint("Error: ") + err.Error()
			return nil
		}
		Logger.Debugf("Resolved %d artifact(s)", len(inputs))

		if decryptOutputPath != "" && len(inputs) > 1 {
			return Logger.ErrorfAndReturn("--output requires exactly one input file, got %d", len(inputs))
		}

		warnPrivateKeyPermissions(decryptPrivateKeyPath)

		prompt := func(p string) ([]byte, error) {
			// Pause the spinner so the hidden prompt owns the terminal.
			if !verbose && !debug {
				spinner.Stop()
				defer spinner.Start()
			}
			return utils.ReadPassphrase(p)
		}

		var outputs []string
		for _, input := range inputs {
			output := decryptOutputPath
			if output == "" {
				output = workflows.DeriveOutputPath(input, true)
				if output == "" {
					return Logger.ErrorfAndReturn("cannot derive an output name for %s: use --output", input)
				}
			}

			Logger.Debugf("Decrypting %s -> %s", input, output)
			result, err := workflows.Decrypt(cmd.Context(), workflows.DecryptOptions{
				InputPath:        input,
				PrivateKeyPath:   decryptPrivateKeyPath,
				OutputPath:       output,
				Passphrase:       passphrase,
				PromptPassphrase: prompt,
			})
			if err != nil {
				Logger.Errorf("Failed to decrypt %s: %v", input, err)
				spinner.FinalMSG = decryptFailureMessage(input, err)
				return nil
			}
			Logger.Infof("Decrypted %s (%d bytes)", input, result.OutputSize)
			outputs = append(outputs, result.OutputPath)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Files decrypted successfully!\n" +
			"The following files were recovered: " + utils.FormatPaths(outputs)
		return nil
	},
}

// resolveDecryptInputs resolves patterns against .sealed artifacts, falling
// back to literal paths so explicitly named artifacts without the suffix
// still work with --output.
func resolveDecryptInputs(args []string) ([]string, error) {
	inputs, err := workflows.ResolveInputs(args, true)
	if err == nil || len(args) != 1 {
		return inputs, err
	}
	if _, statErr := os.Stat(args[0]); statErr == nil {
		return []string{args[0]}, nil
	}
	return nil, err
}

// decryptFailureMessage renders a final message for a failed decrypt.
// Authentication failures get one undifferentiated message: the cause
// (wrong key, tampered payload, corrupted transport) is deliberately not
// distinguished.
func decryptFailureMessage(input string, err error) string {
	if errors.Is(err, serrors.ErrDecryptionFailed) {
		return ui.Error.Sprint("✗") + " Decryption failed for " + ui.Path.Sprint(input) + "\n" +
			ui.Info.Sprint("→") + " The artifact does not match this private key or has been modified"
	}
	return ui.Error.Sprint("✗") + " Failed to decrypt " + ui.Path.Sprint(input) + "\n" +
		ui.Error.Sprint("Error: ") + err.Error()
}

// warnPrivateKeyPermissions warns when the private key file is readable by
// other users.
func warnPrivateKeyPermissions(path string) {
	if fileInfo, err := os.Stat(path); err == nil {
		if fileInfo.Mode().Perm()&0077 != 0 {
			Logger.WarnfAlways("Private key file has overly permissive permissions (%o), consider running 'chmod 600 %s'",
				fileInfo.Mode().Perm(), path)
		}
	}
}

func init() {
	decryptCmd.Flags().StringVarP(&decryptPrivateKeyPath, "private-key", "k", "", "path to your PEM private key (required)")
	decryptCmd.Flags().StringVarP(&decryptOutputPath, "output", "o", "", "output path (single input only; default: input without .sealed)")
	decryptCmd.Flags().BoolVarP(&decryptPassphrasePrompt, "passphrase", "p", false, "prompt for the private key passphrase up front")
	_ = decryptCmd.MarkFlagRequired("private-key")
}
