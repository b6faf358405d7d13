package services_test

import (
	"errors"
	"testing"

	"supermarket/internal/domain"
	"supermarket/internal/repos"
	"supermarket/internal/services"
)

func newCatalog(t *testing.T) *services.CatalogService {
	t.Helper()
	db := memdb(t)
	return services.NewCatalogService(repos.NewItemRepo(db), repos.NewCommentRepo(db))
}

func TestListItemsPagination(t *testing.T) {
	catalog := newCatalog(t)

	items, pageCount, err := catalog.ListItems(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || pageCount != 2 {
		t.Fatalf("want 2 items over 2 pages, got %d items pageCount=%d", len(items), pageCount)
	}
	// Newest first
	if items[0].ID != 3 {
		t.Fatalf("want newest item first, got id %d", items[0].ID)
	}

	items, _, err = catalog.ListItems(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("bad second page: %+v", items)
	}
}

func TestSearchMatchesTitleAndDescription(t *testing.T) {
	catalog := newCatalog(t)

	items, total, err := catalog.Search("radio", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("bad title match: total=%d items=%+v", total, items)
	}

	items, total, err = catalog.Search("recipes", 1, 10) // description only
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].ID != 3 {
		t.Fatalf("bad description match: total=%d items=%+v", total, items)
	}

	_, total, err = catalog.Search("nosuchthing", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Fatalf("want no matches, got %d", total)
	}
}

func TestGetItemJoinsSellerAndNotFound(t *testing.T) {
	catalog := newCatalog(t)

	detail, err := catalog.GetItem(2)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Item.Seller != "bob" {
		t.Fatalf("want seller bob, got %q", detail.Item.Seller)
	}
	if len(detail.Classes) != 2 {
		t.Fatalf("want 2 class tags, got %+v", detail.Classes)
	}

	if _, err := catalog.GetItem(999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCommentsAndAverageRating(t *testing.T) {
	catalog := newCatalog(t)

	if err := catalog.AddComment(1, 2, "Great coffee", 5); err != nil {
		t.Fatal(err)
	}
	if err := catalog.AddComment(1, 3, "A bit stale", 2); err != nil {
		t.Fatal(err)
	}

	detail, err := catalog.GetItem(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Comments) != 2 {
		t.Fatalf("want 2 comments, got %d", len(detail.Comments))
	}
	if !detail.Rated || detail.AverageRating != 3.5 {
		t.Fatalf("want average 3.5, got %v (rated=%v)", detail.AverageRating, detail.Rated)
	}

	// Unrated item reports no average at all.
	detail, err = catalog.GetItem(2)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Rated {
		t.Fatal("item without comments must not report a rating")
	}

	if err := catalog.AddComment(999, 2, "ghost", 3); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestParseClassesValidatesVocabulary(t *testing.T) {
	catalog := newCatalog(t)

	classes, err := catalog.ParseClasses([]string{"Category:Books", "", "Condition:Used"})
	if err != nil {
		t.Fatal(err)
	}
	if len(classes) != 2 {
		t.Fatalf("want 2 classes, got %+v", classes)
	}

	if _, err := catalog.ParseClasses([]string{"Category:Spaceships"}); err == nil {
		t.Fatal("unknown value must be rejected")
	}
	if _, err := catalog.ParseClasses([]string{"garbage"}); err == nil {
		t.Fatal("malformed entry must be rejected")
	}
}
