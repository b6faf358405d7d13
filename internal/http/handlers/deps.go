package handlers

import (
	"github.com/jmoiron/sqlx"

	"supermarket/internal/repos"
	"supermarket/internal/services"
)

type Deps struct {
	AuthHandler    *AuthHandler
	ItemHandler    *ItemHandler
	BasketHandler  *BasketHandler
	MessageHandler *MessageHandler
	UserHandler    *UserHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	itemRepo := repos.NewItemRepo(db)
	purchaseRepo := repos.NewPurchaseRepo(db)
	commentRepo := repos.NewCommentRepo(db)
	messageRepo := repos.NewMessageRepo(db)
	userRepo := auth.Users

	catalogSvc := services.NewCatalogService(itemRepo, commentRepo)
	basketSvc := services.NewBasketService(purchaseRepo, itemRepo)
	messageSvc := services.NewMessageService(messageRepo, userRepo)

	return &Deps{
		AuthHandler:    &AuthHandler{Auth: auth},
		ItemHandler:    &ItemHandler{Catalog: catalogSvc},
		BasketHandler:  &BasketHandler{Basket: basketSvc},
		MessageHandler: &MessageHandler{Messages: messageSvc},
		UserHandler:    &UserHandler{Users: userRepo, Catalog: catalogSvc},
	}
}
