package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nurpe/contract-planner/internal/model"
)

// DefaultKey is the key the document is stored under.
const DefaultKey = "contratoData"

// Store persists the single contract document.
type Store interface {
	// Load returns the stored document with defaults filled in for any key
	// the stored copy lacks. A store with nothing saved yields the defaults.
	Load(ctx context.Context) (*model.Document, error)
	// Save overwrites the stored document.
	Save(ctx context.Context, doc *model.Document) error
	Close() error
}

func decodeDocument(payload []byte) (*model.Document, error) {
	doc := model.NewDocument()
	if len(payload) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(payload, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

func encodeDocument(doc *model.Document) ([]byte, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return payload, nil
}
