package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recyforge/recyforge/catalog"
)

// catalogCmd groups catalog browsing commands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the loaded TRaSH catalog caches",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom formats for an application",
	Long: `List the custom formats the catalog offers for an application scope,
optionally narrowed by an expr filter, e.g.:

  recyforge catalog list --app radarr --filter 'hasScore("fr") and score("fr") > 0'
  recyforge catalog list --filter 'Name contains "DTS"'`,
	RunE: runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <trash_id>",
	Short: "Show one custom format in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

var catalogTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List templates and the includes they pull in",
	RunE:  runCatalogTemplates,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogTemplatesCmd)

	catalogCmd.PersistentFlags().StringVar(&appScope, "app", "radarr", "application scope (radarr or sonarr)")
	catalogListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "expr filter expression")
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := loadCatalog()
	if err != nil {
		return err
	}

	var records []catalog.Record
	if filterExpr != "" {
		records, err = store.Search(appScope, filterExpr)
	} else {
		records, err = store.FormatsFor(appScope)
	}
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No custom formats match.")
		return nil
	}

	fmt.Printf("\nFound %d custom formats:\n", len(records))
	fmt.Println(strings.Repeat("-", 80))
	for _, rec := range records {
		fmt.Printf("• %-45s %s\n", rec.Name, rec.TrashID)
	}
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	store, err := loadCatalog()
	if err != nil {
		return err
	}

	rec, ok := store.Format(args[0])
	if !ok {
		return fmt.Errorf("no custom format with trash_id %q", args[0])
	}

	fmt.Printf("Name:     %s\n", rec.Name)
	fmt.Printf("Trash ID: %s\n", rec.TrashID)
	fmt.Printf("App:      %s\n", rec.App)
	if rec.Description != "" {
		fmt.Printf("About:    %s\n", rec.Description)
	}
	if len(rec.Scores) > 0 {
		fmt.Println("Scores:")
		categories := make([]string, 0, len(rec.Scores))
		for category := range rec.Scores {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			fmt.Printf("  %-25s %d\n", category, rec.Scores[category])
		}
	}
	return nil
}

func runCatalogTemplates(cmd *cobra.Command, args []string) error {
	store, err := loadCatalog()
	if err != nil {
		return err
	}

	templates := store.Templates(appScope)
	if len(templates) == 0 {
		fmt.Printf("No templates for %s.\n", appScope)
		return nil
	}

	for _, tpl := range templates {
		fmt.Printf("• %s\n", tpl.Name)
		chain, err := store.ResolveIncludes(appScope, tpl.Name)
		if err != nil {
			logger.Warn().Err(err).Str("template", tpl.Name).Msg("Broken include chain")
			continue
		}
		for _, name := range chain {
			fmt.Printf("    includes %s\n", name)
		}
	}
	return nil
}
