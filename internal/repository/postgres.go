package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"homematch/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

const propertyColumns = `
	property_id, owner_id, title, description, category, street, barangay, city,
	coordinates, image_url, rent, rating, max_renters, is_available, is_verified,
	has_internet, allows_pets, is_furnished, has_ac, is_secure, has_parking,
	number_reviews, created_at, updated_at`

// ListAvailableProperties returns every verified, available property ordered
// by id. The candidate pool for a ranking request; the recommender filters it.
func (r *PostgresRepository) ListAvailableProperties(ctx context.Context) ([]model.Property, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE is_verified = true AND is_available = true
		ORDER BY property_id ASC
	`, propertyColumns)

	var properties []model.Property
	if err := r.db.SelectContext(ctx, &properties, query); err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}
	return properties, nil
}

// GetPropertyByID retrieves a single property by its ID
func (r *PostgresRepository) GetPropertyByID(ctx context.Context, propertyID int64) (*model.Property, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE property_id = $1
	`, propertyColumns)

	var property model.Property
	err := r.db.GetContext(ctx, &property, query, propertyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &property, nil
}

// GetUserContext loads a user's recommendation context: budget string,
// preferred category, reference location and ordered amenity preferences.
func (r *PostgresRepository) GetUserContext(ctx context.Context, userID int64) (*model.UserContext, error) {
	query := `
		SELECT price_range, room_preference, place_of_work_study, preferences_order
		FROM user_profiles
		WHERE user_id = $1
	`

	var userCtx model.UserContext
	err := r.db.GetContext(ctx, &userCtx, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user context: %w", err)
	}
	return &userCtx, nil
}

// GetTranscript returns the persisted chat transcript for a user, oldest
// first, capped at limit messages counted from the end.
func (r *PostgresRepository) GetTranscript(ctx context.Context, userID int64, limit int) ([]model.ChatMessage, error) {
	query := `
		SELECT message_id, user_id, sender, text, created_at
		FROM (
			SELECT message_id, user_id, sender, text, created_at
			FROM chat_messages
			WHERE user_id = $1
			ORDER BY message_id DESC
			LIMIT $2
		) recent
		ORDER BY message_id ASC
	`

	var messages []model.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	return messages, nil
}

// AppendMessage appends one message to a user's transcript
func (r *PostgresRepository) AppendMessage(ctx context.Context, userID int64, sender model.ChatSender, text string) error {
	query := `
		INSERT INTO chat_messages (user_id, sender, text)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, sender, text); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ClearTranscript deletes a user's entire transcript
func (r *PostgresRepository) ClearTranscript(ctx context.Context, userID int64) error {
	query := `DELETE FROM chat_messages WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}
	return nil
}

// LogRecommendation records one ranking request for diagnostics
func (r *PostgresRepository) LogRecommendation(ctx context.Context, userID int64, priority model.RecommendPriority, resultCount int, propertyIDs []int64, responseTimeMs int) error {
	ids := make(model.StringArray, len(propertyIDs))
	for i, id := range propertyIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}

	query := `
		INSERT INTO recommendation_logs (user_id, priority, result_count, returned_property_ids, response_time_ms)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, priority, resultCount, ids, responseTimeMs); err != nil {
		return fmt.Errorf("failed to log recommendation: %w", err)
	}
	return nil
}
