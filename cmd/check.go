package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recyforge/recyforge/arr"
	"github.com/recyforge/recyforge/model"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test connections to every instance in the project",
	Long: `Ping each Radarr/Sonarr instance the project file targets using its
base_url and api_key. Unreachable instances are reported but do not
fail generation; this only verifies the connection fields.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	doc, err := model.LoadProject(projectPath)
	if err != nil {
		return err
	}
	applyConnectionDefaults(doc)

	results := arr.CheckAll(context.Background(), doc, logger)
	if len(results) == 0 {
		fmt.Println("Project has no instances to check.")
		return nil
	}

	var failures int
	for _, res := range results {
		if res.Err != nil {
			failures++
			fmt.Printf("✗ %s/%s (%s): %v\n", res.App, res.Name, res.URL, res.Err)
			continue
		}
		fmt.Printf("✓ %s/%s (%s)\n", res.App, res.Name, res.URL)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d instances unreachable", failures, len(results))
	}
	return nil
}
