package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siherrmann/kgraph/database"
	"github.com/siherrmann/kgraph/helper"
	"github.com/siherrmann/kgraph/model"
)

// Reconciler loads extraction results into a graph store. Loading is
// idempotent, the same result applied twice leaves the graph unchanged.
type Reconciler struct {
	store database.GraphStore
	log   *slog.Logger
}

// NewReconciler wraps a graph store for loading.
func NewReconciler(store database.GraphStore, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, log: logger}
}

// LoadExtraction loads one chunk's extraction into the store in three passes,
// entities first, then relationships, then summaries, so every relationship
// endpoint from the same extraction already exists when the edge is written.
// Relationships whose endpoints are still missing are logged and skipped.
func (r *Reconciler) LoadExtraction(ctx context.Context, result *model.ExtractionResult, index *model.EntityIndex) error {
	if result == nil {
		return nil
	}

	for _, entity := range result.Entities {
		exists, err := r.store.EntityExists(ctx, entity.Name)
		if err != nil {
			return helper.NewError("checking entity existence", err)
		}
		if exists {
			r.log.Info("entity already exists", slog.String("name", model.SanitizeName(entity.Name)), slog.String("type", entity.Type))
		}
		err = r.store.UpsertEntity(ctx, entity.Name, entity.Type, entity.Properties)
		if err != nil {
			return helper.NewError(fmt.Sprintf("upserting entity %v", entity.Name), err)
		}
	}

	for _, rel := range result.Relationships {
		created, err := r.store.UpsertRelationship(ctx, rel.Source, rel.Target, rel.Relation, rel.Properties)
		if err != nil {
			return helper.NewError(fmt.Sprintf("upserting relationship %v-%v->%v", rel.Source, rel.Relation, rel.Target), err)
		}
		if !created {
			r.log.Warn(
				"skipping relationship with missing endpoint",
				slog.String("source", rel.Source),
				slog.String("relation", rel.Relation),
				slog.String("target", rel.Target),
			)
		}
	}

	if index != nil {
		for _, entry := range index.Entries {
			err := r.store.AttachSummary(ctx, entry.Key, entry.Value)
			if err != nil {
				return helper.NewError(fmt.Sprintf("attaching summary to %v", entry.Key), err)
			}
		}
	}

	return nil
}

// CreateAnchor upserts the anchor node representing one non-text chunk. The
// node carries the chunk's modality, the saved image path and the generated
// description, so the graph keeps a handle back to the original content.
func (r *Reconciler) CreateAnchor(ctx context.Context, chunkID string, info *model.ImageInfo) (string, error) {
	anchorName := fmt.Sprintf("Image_%v", chunkID)
	err := r.store.UpsertEntity(ctx, anchorName, model.MultimodalAnchorType, model.Metadata{
		"modality":             "image",
		"image_path":           info.ImagePath,
		"detailed_description": info.DetailedDescription,
	})
	if err != nil {
		return "", helper.NewError("creating multimodal anchor", err)
	}
	return anchorName, nil
}

// LinkEntities upserts every given entity and relates it to the anchor with a
// BELONGS_TO edge, directed entity to anchor.
func (r *Reconciler) LinkEntities(ctx context.Context, anchorName string, entities []model.Entity) error {
	for _, entity := range entities {
		err := r.store.UpsertEntity(ctx, entity.Name, entity.Type, entity.Properties)
		if err != nil {
			return helper.NewError(fmt.Sprintf("upserting image entity %v", entity.Name), err)
		}
		_, err = r.store.UpsertRelationship(ctx, entity.Name, anchorName, model.BelongsToRelation, nil)
		if err != nil {
			return helper.NewError(fmt.Sprintf("linking entity %v to anchor", entity.Name), err)
		}
	}
	return nil
}
