package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/recyforge/recyforge/generator"
	"github.com/recyforge/recyforge/model"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the recyclarr configuration file",
	Long: `Merge the project file with the catalog caches and write the recyclarr
configuration. Generation is all-or-nothing: an unresolved catalog
reference or a manual-override conflict aborts before anything is
written.`,
	RunE: runGenerate,
}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the project file without writing anything",
	Long:  `Run a full generation in memory and report the first problem found, if any.`,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)

	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (defaults to output.path from config)")
	generateCmd.Flags().BoolVar(&toStdout, "stdout", false, "print the configuration instead of writing a file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	root, err := buildDocument()
	if err != nil {
		return err
	}

	if toStdout {
		data, err := generator.Serialize(root)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, string(data))
		return nil
	}

	path := outputPath
	if path == "" {
		path = cfg.Output.Path
	}
	if err := generator.WriteFile(path, root); err != nil {
		return err
	}

	logger.Info().Str("path", path).Msg("Configuration written")
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	if _, err := buildDocument(); err != nil {
		return err
	}
	fmt.Println("✓ Project is valid and generates cleanly.")
	return nil
}

// buildDocument loads everything and runs a full generation in memory.
func buildDocument() (*yaml.Node, error) {
	store, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	doc, err := model.LoadProject(projectPath)
	if err != nil {
		return nil, err
	}
	applyConnectionDefaults(doc)

	logger.Debug().
		Int("radarr_instances", len(doc.Radarr)).
		Int("sonarr_instances", len(doc.Sonarr)).
		Msg("Project loaded")

	return generator.Generate(doc, store)
}

// applyConnectionDefaults fills in empty connection fields from config,
// mirroring what the instance editor pre-fills for a new instance.
func applyConnectionDefaults(doc *model.Document) {
	for _, inst := range append(append([]*model.Instance{}, doc.Radarr...), doc.Sonarr...) {
		if inst.BaseURL == "" {
			inst.BaseURL = cfg.BaseURLFor(inst.App)
		}
		if inst.APIKey == "" {
			inst.APIKey = cfg.Defaults.APIKey
		}
	}
}
