package domain

import "fmt"

// FormatMinor переводит минимальные единицы в строку с двумя знаками: 2897 -> "28.97".
func FormatMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
