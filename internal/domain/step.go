package domain

// Step шаг мастера расчета ОСАГО
type Step int

const (
	StepVehicle         Step = 1 // Автомобиль
	StepDrivers         Step = 2 // Водители и срок
	StepInsuredContacts Step = 3 // Страхователь и контакты
	StepResult          Step = 4 // Результат расчета
)

// FirstStep и LastStep границы линейного потока
const (
	FirstStep = StepVehicle
	LastStep  = StepResult
)

// String возвращает машинное имя шага
func (s Step) String() string {
	switch s {
	case StepVehicle:
		return "vehicle"
	case StepDrivers:
		return "drivers"
	case StepInsuredContacts:
		return "insured_contacts"
	case StepResult:
		return "result"
	default:
		return "unknown"
	}
}

// IsValid returns true if the step belongs to the wizard flow
func (s Step) IsValid() bool {
	return s >= FirstStep && s <= LastStep
}

// Previous returns the previous step, clamped at the first one
func (s Step) Previous() Step {
	if s <= FirstStep {
		return FirstStep
	}
	return s - 1
}

// Next returns the next step, clamped at the last one
func (s Step) Next() Step {
	if s >= LastStep {
		return LastStep
	}
	return s + 1
}
