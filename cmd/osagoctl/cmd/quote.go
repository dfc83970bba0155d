package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/domain"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/infra/storage/draft"
	"github.com/m04kA/SMC-OsagoQuoteService/internal/usecase/quote_wizard"
)

var formFile string

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Пройти мастер расчета по форме из TOML-файла",
	Long: `Заполняет мастер данными из файла и проходит шаги по очереди.
Если в [consents] указано agree_with_price = true, расчет передается на оформление.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := loadForm(formFile)
		if err != nil {
			return err
		}

		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Close()

		timeProvider := &quote_wizard.RealTimeProvider{}
		drafts := draft.NewMemoryRepository(time.Hour, timeProvider)
		w := quote_wizard.NewWizardWithTime(uuid.NewString(), newPricingClient(log), drafts, timeProvider, log)

		return runQuote(cmd.Context(), cmd.OutOrStdout(), w, form, token)
	},
}

func init() {
	quoteCmd.Flags().StringVarP(&formFile, "form", "f", "", "TOML-файл с формой")
	_ = quoteCmd.MarkFlagRequired("form")
}

func loadForm(path string) (quote_wizard.Form, error) {
	var form quote_wizard.Form
	if _, err := toml.DecodeFile(path, &form); err != nil {
		return form, fmt.Errorf("failed to read form %s: %w", path, err)
	}
	return form, nil
}

// runQuote проходит шаги 1-3, печатает премию и при согласии с ценой выполняет передачу на оформление
func runQuote(ctx context.Context, out io.Writer, w *quote_wizard.Wizard, form quote_wizard.Form, token string) error {
	agree := form.Consents.AgreeWithPrice
	form.Consents.AgreeWithPrice = false
	if err := w.SetForm(form); err != nil {
		return err
	}

	for w.Step() != domain.LastStep {
		transition, err := w.Next(ctx, token)
		if err != nil {
			var validationErr *quote_wizard.ValidationError
			if errors.As(err, &validationErr) {
				fmt.Fprintf(out, "Шаг %d (%s): %s\n", validationErr.Step, validationErr.Step, validationErr.Message)
			} else {
				fmt.Fprintf(out, "Шаг %d (%s): %v\n", w.Step(), w.Step(), err)
			}
			return err
		}
		fmt.Fprintf(out, "Шаг %d (%s): ok\n", transition.From, transition.From)
	}

	result := w.State().Result
	printResult(out, result)

	if !agree {
		return nil
	}

	form.Consents.AgreeWithPrice = true
	if err := w.SetForm(form); err != nil {
		return err
	}
	transition, err := w.Next(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Оформление: %s\n", transition.Handoff.Location)
	return nil
}

func printResult(out io.Writer, r *domain.PricingResult) {
	if r == nil {
		return
	}

	fmt.Fprintf(out, "Стоимость полиса: %s руб.\n", r.ResultAmount.StringFixed(2))
	fmt.Fprintf(out, "  ТБ %s x КТ %s x КМ %s x КО %s x КС %s x КВС %s x КБМ %s (класс %s)\n",
		r.BaseRate.StringFixed(2),
		r.CoeffRegion.StringFixed(4),
		r.CoeffPower.StringFixed(4),
		r.CoeffDrivers.StringFixed(4),
		r.CoeffTerm.StringFixed(4),
		r.CoeffKvs.StringFixed(4),
		r.CoeffKbm.StringFixed(4),
		r.KbmClassCode,
	)
	fmt.Fprintf(out, "  Номер расчета: %d\n", r.CalcRequestID)
}
