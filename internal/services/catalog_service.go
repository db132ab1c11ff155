package services

import (
	"database/sql"
	"errors"

	"patitas/internal/domain"
	"patitas/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) Categories() ([]string, error) {
	return s.Prods.Categories()
}

func (s *CatalogService) ListDestacados() ([]domain.Product, error) {
	return s.Prods.ListDestacados(8)
}

func (s *CatalogService) ListByCategory(categoria string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Prods.ListByCategory(categoria, pageSize, offset)
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	return p, err
}

func (s *CatalogService) Search(f repos.SearchFilter) ([]domain.Product, error) {
	return s.Prods.Search(f)
}
