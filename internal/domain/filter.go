package domain

import (
	"strings"
	"time"
)

// OrderFilter описывает набор необязательных условий поиска заказов.
// Все заданные условия объединяются через логическое И; пустой фильтр
// совпадает с любым заказом.
type OrderFilter struct {
	ID          *int64
	Status      *OrderStatus
	UserID      *int64
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

// IsEmpty сообщает, задано ли хотя бы одно условие.
func (f OrderFilter) IsEmpty() bool {
	return f.ID == nil && f.Status == nil && f.UserID == nil &&
		f.Description == "" && f.StartDate == nil && f.EndDate == nil
}

// Matches проверяет заказ на соответствие всем заданным условиям.
// Поиск по описанию — регистронезависимое вхождение подстроки,
// границы диапазона дат включаются в результат.
func (f OrderFilter) Matches(order Order) bool {
	if f.ID != nil && order.ID != *f.ID {
		return false
	}
	if f.Status != nil && order.Status != *f.Status {
		return false
	}
	if f.UserID != nil && order.UserID != *f.UserID {
		return false
	}
	if f.Description != "" &&
		!strings.Contains(strings.ToLower(order.Description), strings.ToLower(f.Description)) {
		return false
	}
	if f.StartDate != nil && order.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && order.CreatedAt.After(*f.EndDate) {
		return false
	}
	return true
}
