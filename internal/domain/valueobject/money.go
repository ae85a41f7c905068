package valueobject

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

// MaxMoneyAmount совпадает с границей NUMERIC(12, 2) в схеме.
const MaxMoneyAmount = 9_999_999_999.99

// Money неотрицательная сумма с точностью до копеек, используется для бюджета заказа и суммы отклика.
type Money struct {
	Amount float64
}

func NewMoney(amount float64, field string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s должен быть числом", field))
	}
	if amount < 0 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s не может быть отрицательным", field))
	}
	if amount > MaxMoneyAmount {
		return Money{}, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s не может превышать %.2f", field, MaxMoneyAmount))
	}
	if decimalPlaces(amount) > 2 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("%s указывается с точностью до копеек", field))
	}
	return Money{Amount: amount}, nil
}

// decimalPlaces считает знаки после точки в кратчайшей записи числа.
func decimalPlaces(amount float64) int {
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
