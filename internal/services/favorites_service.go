package services

import "patitas/internal/repos"

type FavoritesService struct {
	Repo *repos.FavoritesRepo
}

func NewFavoritesService(r *repos.FavoritesRepo) *FavoritesService { return &FavoritesService{Repo: r} }

func (s *FavoritesService) Save(sessionID, productID string) error {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return err
	}
	return s.Repo.Add(id, productID)
}

func (s *FavoritesService) Unsave(sessionID, productID string) error {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return err
	}
	return s.Repo.Remove(id, productID)
}

func (s *FavoritesService) List(sessionID string) ([]repos.FavoriteRow, error) {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(id)
}
