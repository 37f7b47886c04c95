package vectorindex

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/shop-assist/catalog"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	VectorIndexName = "productEmbeddingIndex"
	VectorPath      = "embedding"
)

// EmbeddingDimensions matches nomic-embed-text. Changing the embedding model
// requires rebuilding the Atlas vector index.
var EmbeddingDimensions = 768

type ProductModel struct {
	ProductID   string            `json:"productId" bson:"_id"`
	Domain      string            `json:"domain" bson:"domain"`
	Document    string            `json:"document" bson:"document"`
	Name        string            `json:"name" bson:"name"`
	Price       string            `json:"price" bson:"price"`
	ImageURL    string            `json:"imageUrl" bson:"imageUrl"`
	ProductLink string            `json:"productLink" bson:"productLink"`
	Attributes  map[string]string `json:"attributes" bson:"attributes"`
}

func (m ProductModel) Id() string { return m.ProductID }

func (m ProductModel) CollectionName() string { return "products" }

func NewProductModel(item catalog.Item) ProductModel {
	p := item.Product
	return ProductModel{
		ProductID:   item.ID,
		Domain:      string(item.Domain),
		Document:    item.Document,
		Name:        p.Name,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		ProductLink: p.ProductLink,
		Attributes:  p.Attributes(),
	}
}

func (m ProductModel) Item() catalog.Item {
	domain := catalog.Domain(m.Domain)
	return catalog.Item{
		ID:       m.ProductID,
		Domain:   domain,
		Document: m.Document,
		Product:  catalog.NewProduct(domain, m.Name, m.Price, m.ImageURL, m.ProductLink, m.Attributes),
	}
}

type ProductAnnModel struct {
	ProductID string      `json:"productId" bson:"_id"`
	Embedding bson.Vector `json:"-" bson:"embedding"`
}

func (m ProductAnnModel) Id() string { return m.ProductID }

func (m ProductAnnModel) CollectionName() string { return "product_ann_index" }

// Indexes
func (m ProductAnnModel) VectorIndexSpecs() []odm.VectorIndexSpec {
	return []odm.VectorIndexSpec{
		{
			Name:          VectorIndexName,
			Path:          VectorPath,
			Type:          "vector",
			NumDimensions: EmbeddingDimensions,
			Similarity:    "cosine",
			Quantization:  "scalar",
		},
	}
}
