// internal/vector/index.go
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"apptrack-backend/internal/common/database"
	"apptrack-backend/internal/common/errors"
	"apptrack-backend/internal/common/logger"
)

// ResumeIndex stores resume embeddings in an Elasticsearch dense_vector
// index so resumes can be matched against job descriptions by similarity.
type ResumeIndex struct {
	es    *database.ElasticsearchClient
	index string
	dims  int
	log   logger.Logger
}

// Document is one indexed resume embedding.
type Document struct {
	ResumeID  string    `json:"resume_id"`
	UserID    string    `json:"user_id"`
	Filename  string    `json:"filename"`
	Embedding []float32 `json:"embedding"`
}

// Match is one similarity search hit.
type Match struct {
	ResumeID string  `json:"resume_id"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
}

func NewResumeIndex(es *database.ElasticsearchClient, index string, dims int, log logger.Logger) *ResumeIndex {
	if dims == 0 {
		dims = 1536 // text-embedding-ada-002 output size
	}
	return &ResumeIndex{es: es, index: index, dims: dims, log: log}
}

// EnsureIndex creates the embeddings index if it does not exist yet.
func (r *ResumeIndex) EnsureIndex(ctx context.Context) error {
	existsRes, err := r.es.Client.Indices.Exists(
		[]string{r.index},
		r.es.Client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return errors.NewVectorIndexFailedError(err)
	}
	defer existsRes.Body.Close()
	if existsRes.StatusCode == 200 {
		return nil
	}

	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"resume_id": map[string]interface{}{"type": "keyword"},
				"user_id":   map[string]interface{}{"type": "keyword"},
				"filename":  map[string]interface{}{"type": "keyword"},
				"embedding": map[string]interface{}{
					"type":       "dense_vector",
					"dims":       r.dims,
					"index":      true,
					"similarity": "cosine",
				},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return errors.NewVectorIndexFailedError(err)
	}

	createRes, err := r.es.Client.Indices.Create(
		r.index,
		r.es.Client.Indices.Create.WithContext(ctx),
		r.es.Client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return errors.NewVectorIndexFailedError(err)
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return errors.NewVectorIndexFailedError(
			fmt.Errorf("index create returned status %s", createRes.Status()))
	}

	r.log.Info("created resume embedding index", map[string]interface{}{
		"index": r.index,
		"dims":  r.dims,
	})
	return nil
}

// Upsert indexes a resume embedding keyed by resume ID.
func (r *ResumeIndex) Upsert(ctx context.Context, doc *Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.NewVectorIndexFailedError(err)
	}

	res, err := r.es.Client.Index(
		r.index,
		bytes.NewReader(body),
		r.es.Client.Index.WithContext(ctx),
		r.es.Client.Index.WithDocumentID(doc.ResumeID),
		r.es.Client.Index.WithRefresh("true"),
	)
	if err != nil {
		return errors.NewVectorIndexFailedError(err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.NewVectorIndexFailedError(
			fmt.Errorf("index returned status %s", res.Status()))
	}
	return nil
}

// Delete removes a resume embedding. Missing documents are not an error.
func (r *ResumeIndex) Delete(ctx context.Context, resumeID string) error {
	res, err := r.es.Client.Delete(
		r.index,
		resumeID,
		r.es.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return errors.NewVectorIndexFailedError(err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return errors.NewVectorIndexFailedError(
			fmt.Errorf("delete returned status %s", res.Status()))
	}
	return nil
}

// Search returns the user's resumes most similar to the query embedding.
func (r *ResumeIndex) Search(ctx context.Context, userID string, embedding []float32, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 5
	}

	query := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"script_score": map[string]interface{}{
				"query": map[string]interface{}{
					"term": map[string]interface{}{"user_id": userID},
				},
				"script": map[string]interface{}{
					"source": "cosineSimilarity(params.query_vector, 'embedding') + 1.0",
					"params": map[string]interface{}{"query_vector": embedding},
				},
			},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, errors.NewVectorIndexFailedError(err)
	}

	res, err := r.es.Client.Search(
		r.es.Client.Search.WithContext(ctx),
		r.es.Client.Search.WithIndex(r.index),
		r.es.Client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, errors.NewVectorIndexFailedError(err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.NewVectorIndexFailedError(err)
	}
	if res.IsError() {
		return nil, errors.NewVectorIndexFailedError(
			fmt.Errorf("search returned status %s: %s", res.Status(), string(raw)))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64  `json:"_score"`
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.NewVectorIndexFailedError(err)
	}

	matches := make([]Match, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		matches = append(matches, Match{
			ResumeID: hit.Source.ResumeID,
			Filename: hit.Source.Filename,
			Score:    hit.Score,
		})
	}
	return matches, nil
}
