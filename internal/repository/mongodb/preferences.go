package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/agricure/internal/domain/models"
	"github.com/mamadbah2/agricure/internal/i18n"
)

type preferenceDocument struct {
	UserID    string        `bson:"_id"`
	Language  i18n.Language `bson:"language"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// LoadLanguage returns the saved language of userID, or "" when none.
func (r *MongoDBRepository) LoadLanguage(ctx context.Context, userID string) (i18n.Language, error) {
	var doc preferenceDocument
	err := r.findOne(ctx, preferencesCollection, bson.M{"_id": userID}, &doc)
	if errors.Is(err, models.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find preferences of %s: %w", userID, err)
	}
	return doc.Language, nil
}

// SaveLanguage upserts the language of userID.
func (r *MongoDBRepository) SaveLanguage(ctx context.Context, userID string, lang i18n.Language) error {
	doc := preferenceDocument{UserID: userID, Language: lang, UpdatedAt: time.Now().UTC()}
	_, err := r.db.Collection(preferencesCollection).ReplaceOne(ctx, bson.M{"_id": userID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save preferences of %s: %w", userID, err)
	}
	return nil
}
