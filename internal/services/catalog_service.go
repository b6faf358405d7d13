package services

import (
	"database/sql"
	"errors"
	"strings"

	"supermarket/internal/domain"
	"supermarket/internal/repos"
)

type CatalogService struct {
	Items    *repos.ItemRepo
	Comments *repos.CommentRepo
}

func NewCatalogService(items *repos.ItemRepo, comments *repos.CommentRepo) *CatalogService {
	return &CatalogService{Items: items, Comments: comments}
}

const defaultPageSize = 10

func (s *CatalogService) ListItems(page, pageSize int) ([]domain.Item, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	count, err := s.Items.Count()
	if err != nil {
		return nil, 0, err
	}
	pageCount := (count + pageSize - 1) / pageSize
	if pageCount < 1 {
		pageCount = 1
	}
	items, err := s.Items.List(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, pageCount, nil
}

func (s *CatalogService) Search(q string, page, pageSize int) ([]domain.Item, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	total, err := s.Items.SearchCount(q)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.Items.Search(q, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ItemDetail bundles what the item page shows.
type ItemDetail struct {
	Item          domain.Item
	Classes       []domain.ItemClass
	Comments      []domain.Comment
	AverageRating float64
	Rated         bool
}

func (s *CatalogService) GetItem(id int64) (ItemDetail, error) {
	it, err := s.Items.Get(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ItemDetail{}, domain.ErrNotFound
		}
		return ItemDetail{}, err
	}
	classes, err := s.Items.Classes(id)
	if err != nil {
		return ItemDetail{}, err
	}
	comments, err := s.Comments.ByItem(id)
	if err != nil {
		return ItemDetail{}, err
	}
	avg, rated, err := s.Comments.AverageRating(id)
	if err != nil {
		return ItemDetail{}, err
	}
	return ItemDetail{Item: it, Classes: classes, Comments: comments, AverageRating: avg, Rated: rated}, nil
}

// ParseClasses validates "Title:Value" tag entries against the vocabulary.
func (s *CatalogService) ParseClasses(entries []string) ([]domain.ItemClass, error) {
	all, err := s.Items.AllClasses()
	if err != nil {
		return nil, err
	}
	var out []domain.ItemClass
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		title, value, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, errors.New("invalid class format")
		}
		if !contains(all[title], value) {
			return nil, errors.New("invalid class")
		}
		out = append(out, domain.ItemClass{Title: title, Value: value})
	}
	return out, nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func (s *CatalogService) CreateItem(title, description string, price int64, quantity int, userID int64, classes []domain.ItemClass, image []byte) (int64, error) {
	return s.Items.Create(title, description, price, quantity, userID, classes, image)
}

func (s *CatalogService) UpdateItem(id int64, title, description string, price int64, quantity int, classes []domain.ItemClass, image []byte) error {
	return s.Items.Update(id, title, description, price, quantity, classes, image)
}

func (s *CatalogService) DeleteItem(id int64) error {
	return s.Items.Delete(id)
}

func (s *CatalogService) AddComment(itemID, userID int64, content string, rating int) error {
	if _, err := s.Items.Get(itemID); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return err
	}
	return s.Comments.Add(itemID, userID, content, rating)
}
