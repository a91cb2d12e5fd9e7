package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pranjalekhande/paddock-ai/internal/knowledge"
	"github.com/pranjalekhande/paddock-ai/internal/llm"
	"github.com/pranjalekhande/paddock-ai/internal/metrics"
)

// Embedder turns document texts into vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorWriter persists embedded documents.
type VectorWriter interface {
	Upsert(ctx context.Context, vectors []knowledge.Vector) (int, error)
}

// KnowledgeUpdater refreshes the vector knowledge base from current F1 data.
type KnowledgeUpdater struct {
	service  *F1Service
	embedder Embedder
	index    VectorWriter
	log      *logrus.Entry
}

// NewKnowledgeUpdater wires the update pipeline.
func NewKnowledgeUpdater(service *F1Service, embedder Embedder, index VectorWriter, baseLogger *logrus.Logger) *KnowledgeUpdater {
	return &KnowledgeUpdater{
		service:  service,
		embedder: embedder,
		index:    index,
		log:      baseLogger.WithField("component", "kb_update"),
	}
}

// UpdateResult summarizes one knowledge base refresh.
type UpdateResult struct {
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	UpdatedData []string `json:"updated_data,omitempty"`
	VectorCount int      `json:"vector_count,omitempty"`
}

var _ Embedder = (*llm.Client)(nil)
var _ VectorWriter = (*knowledge.PineconeClient)(nil)

// Run fetches current standings, results and schedule, builds retrievable
// documents, embeds them and upserts into the vector index. Individual
// fetch failures drop their document rather than aborting the refresh.
func (u *KnowledgeUpdater) Run(ctx context.Context) (UpdateResult, error) {
	now := time.Now()

	var documents []knowledge.Document
	var updated []string

	if standings, err := u.service.Standings(ctx); err == nil {
		documents = append(documents, knowledge.BuildStandingsDocument(standings, now))
		updated = append(updated, fmt.Sprintf("%d Championship Standings", standings.Season))
	} else {
		u.log.WithError(err).Warn("Skipping standings document")
	}

	if result, err := u.service.LatestResults(ctx); err == nil {
		documents = append(documents, knowledge.BuildRaceResultDocument(result, now))
		updated = append(updated, "Latest Race Results")
	} else {
		u.log.WithError(err).Warn("Skipping race result document")
	}

	timed := u.service.ScheduleWithTiming()
	documents = append(documents, knowledge.BuildScheduleDocument(timed.Schedule, now))
	updated = append(updated, "Upcoming Race Schedule")

	if report, err := u.service.TireStrategyAnalysis(ctx); err == nil {
		documents = append(documents, knowledge.NewDocument(report, map[string]string{
			"type":    "tire_strategy",
			"updated": now.Format("2006-01-02"),
			"source":  "strategy",
		}))
		updated = append(updated, "Current Tire Strategy Analysis")
	} else {
		u.log.WithError(err).Warn("Skipping tire strategy document")
	}

	if len(documents) == 0 {
		return UpdateResult{Status: "error", Message: "No documents could be built"}, fmt.Errorf("knowledge base update produced no documents")
	}

	texts := make([]string, len(documents))
	for i, doc := range documents {
		texts[i] = doc.Content
	}

	embeddings, err := u.embedder.Embed(ctx, texts)
	if err != nil {
		return UpdateResult{Status: "error", Message: "Embedding failed"}, fmt.Errorf("failed to embed documents: %w", err)
	}

	vectors := make([]knowledge.Vector, len(documents))
	for i, doc := range documents {
		metadata := make(map[string]string, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		metadata["text"] = doc.Content
		vectors[i] = knowledge.Vector{
			ID:       doc.ID,
			Values:   embeddings[i],
			Metadata: metadata,
		}
	}

	count, err := u.index.Upsert(ctx, vectors)
	if err != nil {
		return UpdateResult{Status: "error", Message: "Vector upsert failed"}, fmt.Errorf("failed to upsert vectors: %w", err)
	}

	metrics.RecordKnowledgeBaseUpdate(count)
	u.log.WithFields(logrus.Fields{
		"documents": len(documents),
		"vectors":   count,
	}).Info("Knowledge base updated")

	return UpdateResult{
		Status:      "success",
		Message:     "F1 knowledge base updated successfully with current data",
		UpdatedData: updated,
		VectorCount: count,
	}, nil
}
