package domain

import "errors"

// ErrOrderNotFound возвращается, если заказ не найден в хранилище
// или в очереди нет ни одного события.
var ErrOrderNotFound = errors.New("order not found")

// ValidationError переносит ошибки валидации входных данных
// в виде отображения "поле -> сообщение".
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError создаёт ошибку валидации для одного поля.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// IsNotFound проверяет, является ли ошибка отсутствием заказа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

// AsValidation извлекает ValidationError из цепочки ошибок.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
