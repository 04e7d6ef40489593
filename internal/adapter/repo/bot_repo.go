package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"botworkshop/internal/domain"
)

const botColumns = `id, name, subject, subject_color, avatar_url, background, animation,
knowledge_base, security_prompt, video_idle, video_thinking, video_talking, voice_id,
interactions, accuracy, is_visible, created_at, updated_at`

// BotRepositoryPG implements domain.BotRepository.
type BotRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewBotRepository creates a new bot repository backed by PostgreSQL.
func NewBotRepository(pool *pgxpool.Pool) *BotRepositoryPG {
	return &BotRepositoryPG{pool: pool}
}

// List returns all bots, newest first.
func (r *BotRepositoryPG) List(ctx context.Context) ([]domain.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots ORDER BY created_at DESC;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bots []domain.Bot
	for rows.Next() {
		bot, err := scanBot(rows)
		if err != nil {
			return nil, err
		}
		bots = append(bots, *bot)
	}
	return bots, rows.Err()
}

// GetByID fetches a bot by its identifier.
func (r *BotRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots WHERE id = $1;`
	bot, err := scanBot(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return bot, nil
}

// Create inserts a new bot record, assigning an id when none is provided.
func (r *BotRepositoryPG) Create(ctx context.Context, bot *domain.Bot) (*domain.Bot, error) {
	if bot.ID == "" {
		bot.ID = uuid.NewString()
	}
	query := `
INSERT INTO bots (id, name, subject, subject_color, avatar_url, background, animation,
                  knowledge_base, security_prompt, video_idle, video_thinking, video_talking,
                  voice_id, interactions, accuracy, is_visible)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING ` + botColumns + `;`
	created, err := scanBot(r.pool.QueryRow(ctx, query,
		bot.ID,
		bot.Name,
		bot.Subject,
		bot.SubjectColor,
		bot.AvatarURL,
		bot.Background,
		bot.Animation,
		bot.KnowledgeBase,
		bot.SecurityPrompt,
		bot.VideoIdle,
		bot.VideoThinking,
		bot.VideoTalking,
		bot.VoiceID,
		bot.Interactions,
		bot.Accuracy,
		bot.IsVisible,
	))
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update overwrites a bot record and returns the stored row.
func (r *BotRepositoryPG) Update(ctx context.Context, bot *domain.Bot) (*domain.Bot, error) {
	query := `
UPDATE bots
SET name = $2, subject = $3, subject_color = $4, avatar_url = $5, background = $6,
    animation = $7, knowledge_base = $8, security_prompt = $9, video_idle = $10,
    video_thinking = $11, video_talking = $12, voice_id = $13, interactions = $14,
    accuracy = $15, is_visible = $16, updated_at = NOW()
WHERE id = $1
RETURNING ` + botColumns + `;`
	updated, err := scanBot(r.pool.QueryRow(ctx, query,
		bot.ID,
		bot.Name,
		bot.Subject,
		bot.SubjectColor,
		bot.AvatarURL,
		bot.Background,
		bot.Animation,
		bot.KnowledgeBase,
		bot.SecurityPrompt,
		bot.VideoIdle,
		bot.VideoThinking,
		bot.VideoTalking,
		bot.VoiceID,
		bot.Interactions,
		bot.Accuracy,
		bot.IsVisible,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a bot by id.
func (r *BotRepositoryPG) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM bots WHERE id = $1;`, id)
	return err
}

func scanBot(row pgx.Row) (*domain.Bot, error) {
	var bot domain.Bot
	if err := row.Scan(
		&bot.ID,
		&bot.Name,
		&bot.Subject,
		&bot.SubjectColor,
		&bot.AvatarURL,
		&bot.Background,
		&bot.Animation,
		&bot.KnowledgeBase,
		&bot.SecurityPrompt,
		&bot.VideoIdle,
		&bot.VideoThinking,
		&bot.VideoTalking,
		&bot.VoiceID,
		&bot.Interactions,
		&bot.Accuracy,
		&bot.IsVisible,
		&bot.CreatedAt,
		&bot.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &bot, nil
}

var _ domain.BotRepository = (*BotRepositoryPG)(nil)
