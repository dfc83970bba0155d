package tariff

import "errors"

var (
	// ErrTariffNotFound возвращается, когда нет действующей версии тарифа для параметров
	ErrTariffNotFound = errors.New("tariff.repository: no active tariff version")

	// ErrCoefficientNotFound возвращается, когда в версии тарифа нет подходящего коэффициента
	ErrCoefficientNotFound = errors.New("tariff.repository: coefficient not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("tariff.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("tariff.repository: failed to execute query")
)
