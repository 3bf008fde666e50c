package postgres

import (
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// buildFilterWhere собирает WHERE-условие из необязательных полей фильтра.
// Каждое заданное поле добавляет ровно одно условие, все условия соединяются
// через AND. Пустой фильтр возвращает пустую строку — запрос без WHERE.
func buildFilterWhere(filter domain.OrderFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	next := func() string {
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ID != nil {
		args = append(args, *filter.ID)
		clauses = append(clauses, "id = "+next())
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, "status = "+next())
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, "user_id = "+next())
	}
	if filter.Description != "" {
		// Регистронезависимое вхождение подстроки.
		args = append(args, "%"+strings.ToLower(filter.Description)+"%")
		clauses = append(clauses, "LOWER(description) LIKE "+next())
	}

	// Диапазон дат включает границы; одиночная граница оставляет диапазон открытым.
	switch {
	case filter.StartDate != nil && filter.EndDate != nil:
		args = append(args, *filter.StartDate)
		from := next()
		args = append(args, *filter.EndDate)
		to := next()
		clauses = append(clauses, "created_at BETWEEN "+from+" AND "+to)
	case filter.StartDate != nil:
		args = append(args, *filter.StartDate)
		clauses = append(clauses, "created_at >= "+next())
	case filter.EndDate != nil:
		args = append(args, *filter.EndDate)
		clauses = append(clauses, "created_at <= "+next())
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
