package cmd

import (
	"github.com/sealbox/sealbox/internal/configs"
	"github.com/sealbox/sealbox/internal/ui"
	"github.com/sealbox/sealbox/internal/utils"
	"github.com/sealbox/sealbox/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	encryptPublicKeyPath string
	encryptOutputPath    string
	encryptArmor         bool
	encryptNoArmor       bool
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt <file|glob|dir> [...]",
	Short: "Encrypt files for an RSA public key",
	Long: `Encrypt one or more files for the holder of an RSA private key.

Each input is compressed, sealed with a fresh symmetric key, and written as
a self-describing artifact next to the original with a .sealed suffix.
Inputs may be files, directories, or globs (** is supported).

Examples:
  sealbox encrypt report.pdf -k alice.pub.pem
  sealbox encrypt notes/ -k alice.pub.pem             # every file in notes/
  sealbox encrypt 'docs/**/*.md' -k alice.pub.pem
  sealbox encrypt report.pdf -k alice.pub.pem -o report.enc --no-armor`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		spinner, cleanup := startSpinner("Encrypting files...")
		defer cleanup()

		config, err := configs.LoadUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load config: %v", err)
		}
		armor := config.Encrypt.Armor
		if encryptArmor {
			armor = true
		}
		if encryptNoArmor {
			armor = false
		}

		Logger.Debugf("Resolving %d input pattern(s)", len(args))
		inputs, err := workflows.ResolveInputs(args, false)
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " No files to encrypt\n" +
				ui.Error.Sprint("Error: ") + err.Error()
			return nil
		}
		Logger.Debugf("Resolved %d file(s)", len(inputs))

		if encryptOutputPath != "" && len(inputs) > 1 {
			return Logger.ErrorfAndReturn("--output requires exactly one input file, got %d", len(inputs))
		}

		var outputs []string
		for _, input := range inputs {
			output := encryptOutputPath
			if output == "" {
				output = workflows.DeriveOutputPath(input, false)
			}

			Logger.Debugf("Encrypting %s -> %s", input, output)
			result, err := workflows.Encrypt(cmd.Context(), workflows.EncryptOptions{
				InputPath:     input,
				PublicKeyPath: encryptPublicKeyPath,
				OutputPath:    output,
				Armor:         armor,
			})
			if err != nil {
				Logger.Errorf("Failed to encrypt %s: %v", input, err)
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to encrypt " + ui.Path.Sprint(input) + "\n" +
					ui.Error.Sprint("Error: ") + err.Error()
				return nil
			}
			Logger.Infof("Encrypted %s (%d bytes -> %d bytes)", input, result.InputSize, result.OutputSize)
			outputs = append(outputs, result.OutputPath)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Files encrypted successfully!\n" +
			"The following artifacts were created: " + utils.FormatPaths(outputs) +
			ui.Info.Sprint("→") + " Only the matching private key can decrypt them"
		return nil
	},
}

func init() {
	encryptCmd.Flags().StringVarP(&encryptPublicKeyPath, "public-key", "k", "", "path to the recipient's PEM public key (required)")
	encryptCmd.Flags().StringVarP(&encryptOutputPath, "output", "o", "", "output path (single input only; default: <input>.sealed)")
	encryptCmd.Flags().BoolVar(&encryptArmor, "armor", false, "base64-encode the output for text-only transport")
	encryptCmd.Flags().BoolVar(&encryptNoArmor, "no-armor", false, "write the raw binary envelope")
	_ = encryptCmd.MarkFlagRequired("public-key")
}
