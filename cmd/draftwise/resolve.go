package main

import (
	"github.com/spf13/cobra"

	"draftwise/internal/domain"
	"draftwise/internal/resolver"
	"draftwise/internal/service"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Rank existing clients or products against partial details",
}

var resolveClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Rank existing clients",
	Long: `Rank the user's clients against partial details.

Example:
  draftwise resolve client --context biz.yaml --name "acme" --email ap@acme.test`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var partial domain.ExtractedClient
		partial.Name, _ = f.GetString("name")
		partial.Email, _ = f.GetString("email")
		partial.Phone, _ = f.GetString("phone")
		partial.Address, _ = f.GetString("address")
		partial.TaxNumber, _ = f.GetString("tax-number")

		b, err := openBackend()
		if err != nil {
			return err
		}
		defer b.close()

		res, err := service.NewResolveService(b.clients, b.products, b.resolver()).
			ResolveClient(cmd.Context(), b.userID, partial)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var resolveProductCmd = &cobra.Command{
	Use:   "product",
	Short: "Rank existing products",
	RunE: func(cmd *cobra.Command, args []string) error {
		var query resolver.ProductQuery
		query.Name, _ = cmd.Flags().GetString("name")
		query.Description, _ = cmd.Flags().GetString("description")

		b, err := openBackend()
		if err != nil {
			return err
		}
		defer b.close()

		res, err := service.NewResolveService(b.clients, b.products, b.resolver()).
			ResolveProduct(cmd.Context(), b.userID, query)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	cf := resolveClientCmd.Flags()
	cf.String("name", "", "client name")
	cf.String("email", "", "client email")
	cf.String("phone", "", "client phone")
	cf.String("address", "", "client address")
	cf.String("tax-number", "", "client tax number")

	pf := resolveProductCmd.Flags()
	pf.String("name", "", "product name")
	pf.String("description", "", "product description")

	resolveCmd.AddCommand(resolveClientCmd, resolveProductCmd)
	rootCmd.AddCommand(resolveCmd)
}
