package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"patitas/internal/config"
	"patitas/internal/repos"
	"patitas/internal/services"
)

type Deps struct {
	AuthHandler      *AuthHandler
	ProductHandler   *ProductHandler
	SearchHandler    *SearchHandler
	CartHandler      *CartHandler
	PaymentHandler   *PaymentHandler
	OrderHandler     *OrderHandler
	FavoritesHandler *FavoritesHandler
	AdminHandler     *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	favRepo := repos.NewFavoritesRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	paySvc := &services.PaymentService{Delay: time.Duration(cfg.PaymentDelayMs) * time.Millisecond}
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo, paySvc)
	favSvc := services.NewFavoritesService(favRepo)
	userRepo := repos.NewUserRepo(db)

	return &Deps{
		AuthHandler:      &AuthHandler{Auth: auth, Cart: cartSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		SearchHandler:    &SearchHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		PaymentHandler:   &PaymentHandler{Orders: orderSvc, Payment: paySvc},
		OrderHandler:     &OrderHandler{Repo: orderRepo},
		FavoritesHandler: &FavoritesHandler{Fav: favSvc},
		AdminHandler:     &AdminHandler{Prods: prodRepo, Orders: orderRepo, Users: userRepo},
	}
}
