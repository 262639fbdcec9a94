package main

import (
	"fmt"

	"github.com/artpar/occigate/bootstrap"
	"github.com/artpar/occigate/core/render"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the advertised category taxonomy",
	Long: `Print every kind, mixin and action the server advertises on its
discovery interface, in the text/plain rendering.`,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	reg := bootstrap.NewTaxonomy()

	renderer := &render.TextRenderer{}
	result, err := renderer.Render(reg.Collection())
	if err != nil {
		return err
	}
	fmt.Print(string(result.Body))
	return nil
}
