package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"videogen/template-builder/models"
)

const (
	connectTimeout    = 10 * time.Second
	hydrationParallel = 4
)

// Store wraps the MongoDB collections used around the pipeline: the video
// asset source, template drafts and per-user usage counters.
type Store struct {
	client   *mongo.Client
	assets   *mongo.Collection
	analyses *mongo.Collection
	drafts   *mongo.Collection
	usage    *mongo.Collection
}

// TemplateDraft is a persisted generation result. The template itself is
// stored as its JSON wire form; the render engine consumes JSON, and Mongo
// never needs to query inside it.
type TemplateDraft struct {
	ID           string    `bson:"_id" json:"id"`
	UserID       string    `bson:"user_id" json:"userId"`
	VoiceID      string    `bson:"voice_id" json:"voiceId"`
	TemplateJSON string    `bson:"template_json" json:"-"`
	SceneCount   int       `bson:"scene_count" json:"sceneCount"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

type analysisDoc struct {
	AssetID  string           `bson:"asset_id"`
	Segments []models.Segment `bson:"segments"`
}

// Connect opens the MongoDB connection and binds the collections.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:   client,
		assets:   db.Collection("video_assets"),
		analyses: db.Collection("asset_analyses"),
		drafts:   db.Collection("template_drafts"),
		usage:    db.Collection("usage_counters"),
	}
	if err := s.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	fmt.Println("✓ MongoDB connected successfully")
	return s, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	_, err := s.assets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return err
	}
	_, err = s.analyses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "asset_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.drafts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// GetUserAssets fetches the caller's video assets and hydrates each one's
// analysis data. Hydration lookups run in parallel with a small bound; an
// asset without an analysis document simply has no AnalysisData.
func (s *Store) GetUserAssets(ctx context.Context, userID string) ([]models.VideoAsset, error) {
	cursor, err := s.assets.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assets for user %s: %w", userID, err)
	}
	var assets []models.VideoAsset
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, fmt.Errorf("failed to decode assets: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hydrationParallel)
	for i := range assets {
		i := i
		g.Go(func() error {
			var doc analysisDoc
			err := s.analyses.FindOne(gctx, bson.M{"asset_id": assets[i].ID}).Decode(&doc)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to fetch analysis for asset %s: %w", assets[i].ID, err)
			}
			if len(doc.Segments) > 0 {
				assets[i].AnalysisData = &models.AnalysisData{Segments: doc.Segments}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}

// SaveDraft persists a generated template and returns the draft id.
func (s *Store) SaveDraft(ctx context.Context, userID, voiceID string, tpl *models.RenderTemplate) (string, error) {
	data, err := json.Marshal(tpl)
	if err != nil {
		return "", fmt.Errorf("failed to marshal template: %w", err)
	}
	draft := TemplateDraft{
		ID:           uuid.New().String(),
		UserID:       userID,
		VoiceID:      voiceID,
		TemplateJSON: string(data),
		SceneCount:   len(tpl.Elements),
		CreatedAt:    time.Now(),
	}
	if _, err := s.drafts.InsertOne(ctx, draft); err != nil {
		return "", fmt.Errorf("failed to save template draft: %w", err)
	}
	return draft.ID, nil
}

// GetDraft loads a persisted template draft by id.
func (s *Store) GetDraft(ctx context.Context, id string) (*TemplateDraft, error) {
	var draft TemplateDraft
	err := s.drafts.FindOne(ctx, bson.M{"_id": id}).Decode(&draft)
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// IncrementUsage bumps the caller's generation counter.
func (s *Store) IncrementUsage(ctx context.Context, userID string) error {
	_, err := s.usage.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$inc": bson.M{"templates_generated": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
