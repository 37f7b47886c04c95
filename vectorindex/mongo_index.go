package vectorindex

import (
	"context"
	"fmt"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/SaiNageswarS/go-collection-boot/ds"
	"github.com/SaiNageswarS/shop-assist/catalog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const candidatesPerResult = 20

// MongoIndex serves retrieval from Atlas vector search. Catalog rows and their
// embeddings live in separate collections so the row documents stay small.
type MongoIndex struct {
	productRepository odm.OdmCollectionInterface[ProductModel]
	vectorRepository  odm.OdmCollectionInterface[ProductAnnModel]
}

func NewMongoIndex(mongo odm.MongoClient, tenant string) *MongoIndex {
	return &MongoIndex{
		productRepository: odm.CollectionOf[ProductModel](mongo, tenant),
		vectorRepository:  odm.CollectionOf[ProductAnnModel](mongo, tenant),
	}
}

func EnsureMongoIndexes(ctx context.Context, mongo odm.MongoClient, tenant string) error {
	if err := odm.EnsureIndexes[ProductModel](ctx, mongo, tenant); err != nil {
		return err
	}
	return odm.EnsureIndexes[ProductAnnModel](ctx, mongo, tenant)
}

func (m *MongoIndex) Add(ctx context.Context, item catalog.Item, vector []float32) error {
	if _, err := async.Await(m.productRepository.Save(ctx, NewProductModel(item))); err != nil {
		return fmt.Errorf("saving product %s: %w", item.ID, err)
	}

	ann := ProductAnnModel{ProductID: item.ID, Embedding: bson.NewVector(vector)}
	if _, err := async.Await(m.vectorRepository.Save(ctx, ann)); err != nil {
		return fmt.Errorf("saving embedding %s: %w", item.ID, err)
	}
	return nil
}

func (m *MongoIndex) Search(ctx context.Context, vector []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return []Hit{}, nil
	}

	hits, err := async.Await(m.vectorRepository.VectorSearch(ctx, vector, odm.VectorSearchParams{
		IndexName:     VectorIndexName,
		Path:          VectorPath,
		K:             k,
		NumCandidates: k * candidatesPerResult,
	}))
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	seen := ds.NewSet[string]()
	var (
		ranked []rankedID
		ids    []string
	)
	for _, h := range hits {
		id := h.Doc.Id()
		if seen.Contains(id) { // keep the best ranked hit
			continue
		}
		seen.Add(id)
		ranked = append(ranked, rankedID{id: id, score: h.Score})
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []Hit{}, nil
	}

	rows, err := async.Await(m.productRepository.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("fetching products: %w", err)
	}

	return assembleHits(ranked, rows), nil
}

type rankedID struct {
	id    string
	score float64
}

// assembleHits orders rows by vector rank. Ids without a row are skipped.
func assembleHits(ranked []rankedID, rows []ProductModel) []Hit {
	byID := make(map[string]ProductModel, len(rows))
	for _, row := range rows {
		byID[row.ProductID] = row
	}

	out := make([]Hit, 0, len(ranked))
	for _, r := range ranked {
		row, ok := byID[r.id]
		if !ok {
			logger.Info("product id missing after lookup", zap.String("id", r.id))
			continue
		}
		out = append(out, Hit{Item: row.Item(), Score: r.score})
	}
	return out
}
