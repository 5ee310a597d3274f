package settings

import "time"

// Deduction is one named fixed deduction line. Order is preserved and
// the list is copied verbatim into every salary record at settlement.
type Deduction struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Payroll holds the process-wide rate configuration. It is mutated only
// through the administrative update endpoint and passed by value into
// the aggregator so settlement math never reads ambient state.
type Payroll struct {
	BaseHourlyRate   float64     `json:"baseHourlyRate"`
	OT1Multiplier    float64     `json:"ot1Multiplier"`
	OT2Multiplier    float64     `json:"ot2Multiplier"`
	BaseMonthSalary  float64     `json:"baseMonthSalary"`
	WelfareAllowance float64     `json:"welfareAllowance"`
	HousingAllowance float64     `json:"housingAllowance"`
	Deductions       []Deduction `json:"deductions"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}
