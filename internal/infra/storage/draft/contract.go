package draft

import (
	"time"

	"github.com/m04kA/SMC-OsagoQuoteService/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}
