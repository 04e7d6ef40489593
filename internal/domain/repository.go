package domain

import "context"

// BotRepository defines persistence for bot personas.
type BotRepository interface {
	List(ctx context.Context) ([]Bot, error)
	GetByID(ctx context.Context, id string) (*Bot, error)
	Create(ctx context.Context, bot *Bot) (*Bot, error)
	Update(ctx context.Context, bot *Bot) (*Bot, error)
	Delete(ctx context.Context, id string) error
}
