package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Amount представляет денежное или числовое поле формы. Формы присылают
// числа и как JSON-числа, и как строки ("12.50"), поэтому тип принимает
// оба варианта. Пустая строка означает "значение не заполнено" и дает 0.
// Нечисловая строка - это ошибка валидации, а не молчаливый 0.
type Amount float64

// UnmarshalJSON разбирает число или числовую строку
func (a *Amount) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*a = 0
		return nil
	case float64:
		*a = Amount(v)
		return nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			*a = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("значение %q не является числом", v)
		}
		*a = Amount(parsed)
		return nil
	default:
		return fmt.Errorf("недопустимый тип числового поля")
	}
}

// Float64 возвращает значение как float64
func (a Amount) Float64() float64 {
	return float64(a)
}

// Int возвращает значение, округленное до целого
func (a Amount) Int() int {
	return int(a)
}
