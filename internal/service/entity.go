package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"docscan/internal/analysis"
	"docscan/internal/apperr"
	"docscan/internal/model"
	"docscan/internal/repository"
)

// canonicalDateLayout is the ISO-8601 instant format produced by the parser
// for date-typed mentions.
const canonicalDateLayout = "2006-01-02T15:04:05.000Z07:00"

// EntityReconciler maps extracted entity mentions onto durable entities.
// Identity is the (name, type) pair, matched case-insensitively; entities are
// created on first sight and never updated. Mentions are deduplicated within
// one record before dispatch, so a single save cannot race against itself.
type EntityReconciler struct {
	entities repository.EntityRepository
	logger   *slog.Logger
}

// NewEntityReconciler constructs a reconciler over the given repository.
func NewEntityReconciler(entities repository.EntityRepository, logger *slog.Logger) *EntityReconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EntityReconciler{entities: entities, logger: logger}
}

// Reconcile resolves each mention to a persisted entity, creating missing
// ones. Lookups and creates for distinct mentions run concurrently; the
// returned slice preserves the (deduplicated) mention order. Date mentions
// are canonicalized first; an unparseable date fails the whole call.
func (r *EntityReconciler) Reconcile(ctx context.Context, mentions []model.EntityMention) ([]model.Entity, error) {
	unique, err := dedupeMentions(mentions)
	if err != nil {
		return nil, err
	}

	resolved := make([]model.Entity, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range unique {
		g.Go(func() error {
			e, err := r.lookupOrCreate(gctx, m)
			if err != nil {
				return err
			}
			resolved[i] = *e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (r *EntityReconciler) lookupOrCreate(ctx context.Context, m model.EntityMention) (*model.Entity, error) {
	existing, err := r.entities.FindByNameAndType(ctx, m.Name, m.Type)
	if err != nil {
		return nil, apperr.Storage("failed to look up entity", err)
	}
	if existing != nil {
		return existing, nil
	}

	entity := &model.Entity{
		ID:   uuid.NewString(),
		Name: m.Name,
		Type: m.Type,
	}
	if m.Date != nil {
		t, err := time.Parse(canonicalDateLayout, *m.Date)
		if err != nil {
			return nil, apperr.Validation("invalid canonical date for entity " + strconv.Quote(m.Name))
		}
		entity.Date = &t
	}

	created, err := r.entities.Create(ctx, entity)
	if err != nil {
		return nil, apperr.Storage("failed to create entity", err)
	}
	r.logger.Info("entity.created", "id", created.ID, "name", created.Name, "type", created.Type)
	return created, nil
}

// dedupeMentions collapses mentions sharing a case-insensitive (name, type)
// key, preserving first-seen order, and canonicalizes date mentions whose
// Date field is not already populated. The raw name stays the identity key;
// canonicalization only fills Date, so a mention resolves to the same entity
// whether or not the payload carried the optional date field.
func dedupeMentions(mentions []model.EntityMention) ([]model.EntityMention, error) {
	seen := make(map[string]struct{}, len(mentions))
	out := make([]model.EntityMention, 0, len(mentions))
	for _, m := range mentions {
		if m.Type == model.EntityDate && m.Date == nil {
			canonical, err := analysis.CanonicalDate(m.Name)
			if err != nil {
				return nil, apperr.Validation("unparseable date entity " + strconv.Quote(m.Name))
			}
			m.Date = &canonical
		}
		key := strings.ToLower(m.Name) + "|" + string(m.Type)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}
