package animals

import "github.com/shopspring/decimal"

// CostPerPound calcula (inversión total + costo de procesamiento) / peso final.
// Devuelve nil cuando el peso es cero, negativo o desconocido: es una
// estimación de display, no un valor obligatorio, así que la ausencia
// de peso no es un error.
func CostPerPound(totalInvestment, processingCost decimal.Decimal, finalWeightLbs *decimal.Decimal) *decimal.Decimal {
	if finalWeightLbs == nil || !finalWeightLbs.IsPositive() {
		return nil
	}
	v := totalInvestment.Add(processingCost).Div(*finalWeightLbs).Round(2)
	return &v
}
