package tariff

import "github.com/m04kA/SMC-OsagoQuoteService/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
