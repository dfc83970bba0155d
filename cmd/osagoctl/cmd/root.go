package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-OsagoQuoteService/internal/integrations/pricingservice"
	"github.com/m04kA/SMC-OsagoQuoteService/pkg/logger"
)

var (
	pricingURL string
	timeout    time.Duration
	token      string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "osagoctl",
	Short: "Расчет ОСАГО из командной строки",
	Long: `osagoctl проходит мастер расчета ОСАГО против сервиса тарификации.

Примеры:
  osagoctl refdata
  osagoctl quote --form form.toml
  osagoctl quote --form form.toml --token $TOKEN --pricing-url http://osago:8080`,
	SilenceUsage: true,
}

// Execute запускает CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&pricingURL, "pricing-url", "http://localhost:8080", "адрес сервиса тарификации")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "таймаут запроса к сервису")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "bearer-токен пользователя (необязательно)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробный лог")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(refDataCmd)
}

func newLogger() (*logger.Logger, error) {
	if !verbose {
		return logger.NewNop(), nil
	}
	return logger.New("", "debug")
}

func newPricingClient(log *logger.Logger) *pricingservice.Client {
	return pricingservice.NewClient(pricingURL, timeout, log)
}
