package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/integrations/pricingservice"
)

var refDataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Показать справочники: категории ТС, регионы, сроки, классы КБМ",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Close()

		refData, err := newPricingClient(log).GetRefData(cmd.Context(), token)
		if err != nil {
			return fmt.Errorf("failed to load reference data: %w", err)
		}

		printRefData(cmd.OutOrStdout(), refData)
		return nil
	},
}

func printRefData(out io.Writer, refData *pricingservice.RefDataResponse) {
	fmt.Fprintln(out, "Категории ТС:")
	for _, c := range refData.VehicleCategories {
		fmt.Fprintf(out, "  %d\t%s\t%s\n", c.ID, c.Code, c.Name)
	}

	fmt.Fprintln(out, "Регионы:")
	for _, r := range refData.Regions {
		fmt.Fprintf(out, "  %d\t%s\t%s\n", r.ID, r.Code, r.Name)
	}

	fmt.Fprintln(out, "Сроки страхования:")
	for _, t := range refData.Terms {
		fmt.Fprintf(out, "  %d мес.\t%s\n", t.Months, t.Name)
	}

	fmt.Fprintln(out, "Классы КБМ:")
	for _, k := range refData.KbmClasses {
		fmt.Fprintf(out, "  %s\t%s\n", k.Code, k.Coefficient.StringFixed(2))
	}
}
