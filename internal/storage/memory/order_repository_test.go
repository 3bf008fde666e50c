package memory_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/storage/memory"
)

func newOrder(userID int64, description string) domain.Order {
	return domain.Order{
		CreatedAt:   time.Now().UTC(),
		Status:      domain.OrderStatusNew,
		UserID:      userID,
		Description: description,
	}
}

func TestOrderRepository_CreateAssignsIDs(t *testing.T) {
	repo := memory.NewOrderRepository()

	first, err := repo.Create(newOrder(1, "first"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := repo.Create(newOrder(1, "second"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if first.ID == 0 || second.ID == 0 {
		t.Fatal("expected assigned ids")
	}
	if first.ID == second.ID {
		t.Fatalf("ids must be unique, got %d twice", first.ID)
	}
}

func TestOrderRepository_Get(t *testing.T) {
	repo := memory.NewOrderRepository()

	created, err := repo.Create(newOrder(1, "order"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Description != "order" {
		t.Fatalf("expected description %q, got %q", "order", stored.Description)
	}

	if _, err := repo.Get(created.ID + 100); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_List(t *testing.T) {
	repo := memory.NewOrderRepository()
	for i := 0; i < 3; i++ {
		if _, err := repo.Create(newOrder(int64(i), "order")); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	orders, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	for i := 1; i < len(orders); i++ {
		if orders[i-1].ID >= orders[i].ID {
			t.Fatal("expected orders sorted by id")
		}
	}
}

func TestOrderRepository_Search(t *testing.T) {
	repo := memory.NewOrderRepository()

	completed := newOrder(1, "Foobar order")
	completed.Status = domain.OrderStatusCompleted
	if _, err := repo.Create(completed); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.Create(newOrder(2, "pizza delivery")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	status := domain.OrderStatusCompleted
	orders, err := repo.Search(domain.OrderFilter{Status: &status})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(orders) != 1 || orders[0].Description != "Foobar order" {
		t.Fatalf("unexpected search result: %+v", orders)
	}

	// Регистронезависимый поиск по подстроке описания.
	orders, err = repo.Search(domain.OrderFilter{Description: "FOO"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	// Пустой фильтр возвращает всё.
	orders, err = repo.Search(domain.OrderFilter{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
}

func TestOrderRepository_Save(t *testing.T) {
	repo := memory.NewOrderRepository()

	created, err := repo.Create(newOrder(1, "order"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	created.Status = domain.OrderStatusProcessing
	if err := repo.Save(created); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	stored, err := repo.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != domain.OrderStatusProcessing {
		t.Fatalf("expected status %s, got %s", domain.OrderStatusProcessing, stored.Status)
	}

	missing := created
	missing.ID = created.ID + 100
	if err := repo.Save(missing); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_Delete(t *testing.T) {
	repo := memory.NewOrderRepository()

	created, err := repo.Create(newOrder(1, "order"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get(created.ID); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound after delete, got %v", err)
	}

	// Повторное удаление проходит без ошибки.
	if err := repo.Delete(created.ID); err != nil {
		t.Fatalf("delete of missing order must not fail: %v", err)
	}
}

func TestOrderRepository_IDsNotReused(t *testing.T) {
	repo := memory.NewOrderRepository()

	first, err := repo.Create(newOrder(1, "order"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Delete(first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	second, err := repo.Create(newOrder(1, "order"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("id %d was reused", first.ID)
	}
}
